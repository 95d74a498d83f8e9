package lilduino

// RegisterBatteryLib registers the battery command
// Module: battery
func (b *Bridge) RegisterBatteryLib() {
	gauge := b.board.Battery

	b.RegisterSubcommands(NewSubcommandTable("battery",
		Getter("voltage", gauge.Voltage, FloatOf),
		Getter("percentage", gauge.Percentage, FloatOf),
		Getter("rate", gauge.ChangeRate, FloatOf),
		Getter("is_low", gauge.IsLow, BoolOf),
	))
}

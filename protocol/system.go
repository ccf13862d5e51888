package protocol

import (
	"fmt"
	"math"
	"strconv"
)

// Builders for the non-channel command groups: sweep, modulation,
// measurement, synchronization, uplink and device utilities. Each builder
// validates its value's legal domain and returns the finished Command.

// ReadOp builds a bare read command from an opcode (RCG, RBZ, UMO, ...).
func ReadOp(op string) Command {
	return Command{Op: op, Channel: NoChannel, Text: op}
}

func simpleCmd(op, payload string) Command {
	return Command{Op: op, Channel: NoChannel, Text: op + payload}
}

// --- Sweep ---

// BuildSweepModeCmd selects which parameter the sweep varies
// (0=frequency, 1=amplitude, 2=offset, 3=duty cycle).
func BuildSweepModeCmd(mode int) (Command, error) {
	if mode < 0 || mode > 3 {
		return Command{}, &EncodingError{Op: "sweep_mode", Value: strconv.Itoa(mode), Reason: "must be 0..3"}
	}
	return simpleCmd(SweepModeOp, strconv.Itoa(mode)), nil
}

// BuildSweepLogCmd selects logarithmic (true) or linear (false) sweep.
func BuildSweepLogCmd(logarithmic bool) Command {
	return simpleCmd(SweepLogOp, boolDigit(logarithmic))
}

// BuildSweepSourceCmd selects the sweep source (0=time, 1=VCO in).
func BuildSweepSourceCmd(source int) (Command, error) {
	if source != 0 && source != 1 {
		return Command{}, &EncodingError{Op: "sweep_source", Value: strconv.Itoa(source), Reason: "must be 0 or 1"}
	}
	return simpleCmd(SweepSourceOp, strconv.Itoa(source)), nil
}

// BuildSweepTimeCmd sets the sweep duration in seconds.
func BuildSweepTimeCmd(seconds float64) (Command, error) {
	if seconds <= 0 {
		return Command{}, &EncodingError{Op: "sweep_time", Value: formatFloat(seconds), Reason: "must be > 0"}
	}
	return simpleCmd(SweepTimeOp, fmt.Sprintf("%.2f", seconds)), nil
}

// BuildSweepFreqBoundCmd sets the start (end=false) or end (end=true)
// frequency of a frequency sweep.
func BuildSweepFreqBoundCmd(end bool, hz float64) (Command, error) {
	if hz <= 0 {
		return Command{}, &EncodingError{Op: sweepBoundOp(end), Value: formatFloat(hz), Reason: "frequency must be > 0"}
	}
	return simpleCmd(sweepBoundOp(end), fmt.Sprintf("%.1f", hz)), nil
}

// BuildSweepVoltsBoundCmd sets an amplitude sweep bound.
func BuildSweepVoltsBoundCmd(end bool, volts float64) (Command, error) {
	if volts <= 0 {
		return Command{}, &EncodingError{Op: sweepBoundOp(end), Value: formatFloat(volts), Reason: "amplitude must be > 0"}
	}
	return simpleCmd(sweepBoundOp(end), fmt.Sprintf("%.3f", volts)), nil
}

// BuildSweepOffsetBoundCmd sets an offset sweep bound. The caller is
// responsible for the firmware's +10 V encoding bias.
func BuildSweepOffsetBoundCmd(end bool, volts float64) Command {
	return simpleCmd(sweepBoundOp(end), fmt.Sprintf("%.3f", volts))
}

// BuildSweepDutyBoundCmd sets a duty cycle sweep bound (fraction in (0, 1)).
func BuildSweepDutyBoundCmd(end bool, duty float64) (Command, error) {
	if duty <= 0 || duty >= 1 {
		return Command{}, &EncodingError{Op: sweepBoundOp(end), Value: formatFloat(duty), Reason: "duty cycle must be within (0, 1)"}
	}
	return simpleCmd(sweepBoundOp(end), fmt.Sprintf("%.1f", duty*100.0)), nil
}

// BuildSweepEnableCmd starts (true) or stops (false) the sweep.
func BuildSweepEnableCmd(on bool) Command {
	return simpleCmd(SweepEnableOp, boolDigit(on))
}

func sweepBoundOp(end bool) string {
	if end {
		return SweepEndOp
	}
	return SweepStartOp
}

// --- Modulation ---

// BuildHopFreqCmd sets the FSK hop frequency in uHz.
func BuildHopFreqCmd(uhz int64) (Command, error) {
	if uhz < 0 {
		return Command{}, &EncodingError{Op: "hop_freq", Value: strconv.FormatInt(uhz, 10), Reason: "frequency must be >= 0"}
	}
	return simpleCmd(HopFreqOp, fmt.Sprintf("%014d", uhz)), nil
}

// BuildFMBiasFreqCmd sets the FM bias frequency in uHz.
func BuildFMBiasFreqCmd(uhz int64) (Command, error) {
	if uhz < 0 {
		return Command{}, &EncodingError{Op: "fm_bias_freq", Value: strconv.FormatInt(uhz, 10), Reason: "frequency must be >= 0"}
	}
	return simpleCmd(FMBiasFreqOp, fmt.Sprintf("%014d", uhz)), nil
}

// BuildModulationModeCmd selects the modulation mode
// (0=FSK, 1=ASK, 2=PSK, 3=burst, 4=AM, 5=FM, 6=PM).
func BuildModulationModeCmd(mode int) (Command, error) {
	if mode < 0 || mode > 6 {
		return Command{}, &EncodingError{Op: "modulation_mode", Value: strconv.Itoa(mode), Reason: "must be 0..6"}
	}
	return simpleCmd(ModulationModeOp, strconv.Itoa(mode)), nil
}

// BuildBurstCountCmd sets the number of cycles generated per trigger.
func BuildBurstCountCmd(count int) (Command, error) {
	if count < 1 {
		return Command{}, &EncodingError{Op: "burst_count", Value: strconv.Itoa(count), Reason: "must be >= 1"}
	}
	return simpleCmd(BurstCountOp, strconv.Itoa(count)), nil
}

// BuildTriggerCmd selects the modulation trigger source
// (0=channel 2, 1=external, 2=manual, 3=external DC).
func BuildTriggerCmd(trigger int) (Command, error) {
	if trigger < 0 || trigger > 3 {
		return Command{}, &EncodingError{Op: "trigger", Value: strconv.Itoa(trigger), Reason: "must be 0..3"}
	}
	return simpleCmd(TriggerOp, strconv.Itoa(trigger)), nil
}

// BuildAMAttenuationCmd sets the AM attenuation ratio. The device accepts
// up to 200%.
func BuildAMAttenuationCmd(ratio float64) (Command, error) {
	if ratio < 0 || ratio > 2 {
		return Command{}, &EncodingError{Op: "am_attenuation", Value: formatFloat(ratio), Reason: "must be within [0, 2]"}
	}
	return simpleCmd(AMAttenuationOp, fmt.Sprintf("%.1f", ratio*100.0)), nil
}

// BuildPMBiasCmd sets the PM bias in degrees, folded into [0, 360).
func BuildPMBiasCmd(degrees float64) Command {
	return simpleCmd(PMBiasOp, fmt.Sprintf("%.1f", math.Mod(math.Mod(degrees, 360.0)+360.0, 360.0)))
}

// --- Measurement ---

// BuildMeasurementPauseCmd pauses (true) or resumes (false) measurement.
// Note the inverted wire encoding: 0 pauses, 1 runs.
func BuildMeasurementPauseCmd(pause bool) Command {
	return simpleCmd(MeasurementPauseOp, boolDigit(!pause))
}

// BuildGateTimeCmd selects the measurement gate time
// (0=1 s, 1=10 s, 2=100 s).
func BuildGateTimeCmd(gateTime int) (Command, error) {
	if gateTime < 0 || gateTime > 2 {
		return Command{}, &EncodingError{Op: "gate_time", Value: strconv.Itoa(gateTime), Reason: "must be 0..2"}
	}
	return simpleCmd(GateTimeOp, strconv.Itoa(gateTime)), nil
}

// BuildCouplingCmd selects measurement coupling (0=AC, 1=DC).
func BuildCouplingCmd(coupling int) (Command, error) {
	if coupling != 0 && coupling != 1 {
		return Command{}, &EncodingError{Op: "coupling", Value: strconv.Itoa(coupling), Reason: "must be 0 (AC) or 1 (DC)"}
	}
	return simpleCmd(CouplingOp, strconv.Itoa(coupling)), nil
}

// BuildCounterResetCmd zeroes the pulse counter.
func BuildCounterResetCmd() Command {
	return simpleCmd(CounterResetOp, "0")
}

// --- Synchronization ---

// SyncModeCount is the number of synchronizable parameters
// (0=wave, 1=freq, 2=volts, 3=offset, 4=duty cycle).
const SyncModeCount = 5

// BuildSyncCmd enables or disables synchronization of one parameter
// between the channels.
func BuildSyncCmd(mode int, enable bool) (Command, error) {
	if mode < 0 || mode >= SyncModeCount {
		return Command{}, &EncodingError{Op: "sync_mode", Value: strconv.Itoa(mode), Reason: "must be 0..4"}
	}
	op := SyncDisableOp
	if enable {
		op = SyncEnableOp
	}
	return simpleCmd(op, strconv.Itoa(mode)), nil
}

// ReadSyncCmd builds the read command for one sync mode's state.
func ReadSyncCmd(mode int) (Command, error) {
	if mode < 0 || mode >= SyncModeCount {
		return Command{}, &EncodingError{Op: "sync_mode", Value: strconv.Itoa(mode), Reason: "must be 0..4"}
	}
	return simpleCmd(ReadSyncOp, strconv.Itoa(mode)), nil
}

// --- Uplink ---

// BuildUplinkEnableCmd enables or disables instrument linking.
func BuildUplinkEnableCmd(on bool) Command {
	return simpleCmd(UplinkEnableOp, boolDigit(on))
}

// BuildUplinkMasterCmd configures this instrument as the uplink master
// (true) or slave (false). Note the inverted wire encoding: 0 is master.
func BuildUplinkMasterCmd(isMaster bool) Command {
	return simpleCmd(UplinkMasterOp, boolDigit(!isMaster))
}

// --- Device utilities ---

// BuildSaveStateCmd saves the current device state to an internal slot.
// Slot 1 holds the power-on state.
func BuildSaveStateCmd(slot int) (Command, error) {
	if slot < 0 || slot > MaxStateSlot {
		return Command{}, &EncodingError{Op: "save_state", Value: strconv.Itoa(slot), Reason: "slot out of range"}
	}
	return simpleCmd(SaveStateOp, fmt.Sprintf("%02d", slot)), nil
}

// BuildLoadStateCmd restores device state from an internal slot.
func BuildLoadStateCmd(slot int) (Command, error) {
	if slot < 0 || slot > MaxStateSlot {
		return Command{}, &EncodingError{Op: "load_state", Value: strconv.Itoa(slot), Reason: "slot out of range"}
	}
	return simpleCmd(LoadStateOp, fmt.Sprintf("%02d", slot)), nil
}

// BuildBuzzerCmd enables or disables the front panel buzzer.
func BuildBuzzerCmd(on bool) Command {
	return simpleCmd(BuzzerOp, boolDigit(on))
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

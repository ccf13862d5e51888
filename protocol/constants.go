package protocol

// ChannelCount is the number of independent output channels.
const ChannelCount = 2

// NoChannel marks commands that are not scoped to a channel.
const NoChannel = -1

// Channel command prefixes. The instrument addresses channel 0 as the
// "main" wave and channel 1 as the "secondary" wave.
const (
	// WritePrefixCh0 starts every channel 0 parameter write
	WritePrefixCh0 = "WM"

	// WritePrefixCh1 starts every channel 1 parameter write
	WritePrefixCh1 = "WF"

	// ReadPrefixCh0 starts every channel 0 parameter read
	ReadPrefixCh0 = "RM"

	// ReadPrefixCh1 starts every channel 1 parameter read
	ReadPrefixCh1 = "RF"
)

// MinCommandLength is the shortest command the instrument accepts.
const MinCommandLength = 3

// MaxReadSize bounds a single response line read from the instrument.
const MaxReadSize = 256

// MaxWaveID is the largest waveform id the W opcode can express (two
// decimal digits).
const MaxWaveID = 99

// Waveform memory geometry.
const (
	// WaveformBitDepth is the sample resolution of the arbitrary
	// waveform DAC
	WaveformBitDepth = 14

	// MaxRawSample is one past the largest legal raw sample value
	MaxRawSample = 1 << WaveformBitDepth // 16384

	// DefaultValueCount is the number of samples in one arbitrary
	// waveform slot on FY23xx hardware
	DefaultValueCount = 8192

	// BytesPerSample is the wire size of one sample (low 8 bits, then
	// high 6 bits)
	BytesPerSample = 2

	// DefaultUploadChunkSize is the default per-write payload size for
	// waveform uploads, in bytes. Always even so a chunk boundary never
	// splits a sample.
	DefaultUploadChunkSize = 512
)

// Waveform upload handshake tokens.
const (
	// WaveformLoadAck is the response to a DDS_WAVE command when the
	// instrument is ready to receive sample data
	WaveformLoadAck = "W"

	// WaveformDataAck is the response after all sample data has been
	// accepted
	WaveformDataAck = "HN"
)

// Sweep opcodes.
const (
	SweepModeOp   = "SOB" // sweep parameter selection
	SweepLogOp    = "SMO" // linear/logarithmic
	SweepSourceOp = "SXY" // time or VCO-in
	SweepTimeOp   = "STI" // sweep time, seconds
	SweepStartOp  = "SST" // sweep start value
	SweepEndOp    = "SEN" // sweep end value
	SweepEnableOp = "SBE" // sweep run/stop
)

// Modulation opcodes.
const (
	HopFreqOp        = "WFK" // FSK hop frequency, uHz
	FMBiasFreqOp     = "WFM" // FM bias frequency, uHz
	ModulationModeOp = "WPF"
	BurstCountOp     = "WPN"
	TriggerOp        = "WPM"
	AMAttenuationOp  = "WPR"
	PMBiasOp         = "WPP"
)

// Measurement opcodes.
const (
	MeasurementPauseOp = "WCP"
	GateTimeOp         = "WCG"
	CouplingOp         = "WCC"
	CounterResetOp     = "WCZ"

	ReadGateTimeOp      = "RCG"
	ReadFrequencyOp     = "RCF"
	ReadCounterOp       = "RCC"
	ReadPeriodOp        = "RCT"
	ReadPositiveWidthOp = "RC+"
	ReadNegativeWidthOp = "RC-"
	ReadDutyOp          = "RCD"
)

// Synchronization opcodes.
const (
	SyncEnableOp  = "USA"
	SyncDisableOp = "USD"
	ReadSyncOp    = "RSA"
)

// Uplink (master/slave linking) opcodes.
const (
	UplinkEnableOp = "UUL"
	UplinkMasterOp = "UMS"
	ReadUplinkOp   = "RUL"
	ReadMasterOp   = "RMS"
)

// Device utility opcodes.
const (
	SaveStateOp = "USN"
	LoadStateOp = "ULN"
	BuzzerOp    = "UBZ"
	ReadBuzzer  = "RBZ"
	ReadID      = "UID"
	ReadModel   = "UMO"
)

// MaxStateSlot is the highest save/load state index (two decimal digits).
const MaxStateSlot = 99

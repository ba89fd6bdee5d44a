package model

type Store string

const (
	KVConfig  Store = "kvConfig"
	Transfers Store = "transfers"
)

const (
	// DefaultPort is the loopback port used when no port is configured
	DefaultPort = 37465

	// MaxScanDelaySec bounds the per-folder stabilization delay
	MaxScanDelaySec = 60

	// TransferCountKey is the kvConfig key tracking total transfer attempts
	TransferCountKey = "transferCount"
)

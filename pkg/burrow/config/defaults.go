package config

// Default values applied when the config file and environment provide none.
const (
	// DefaultWorkers is the number of concurrent scan workers.
	DefaultWorkers = 3

	// DefaultEventBuffer is the capacity of the engine event channel.
	DefaultEventBuffer = 1024

	// DefaultProgressIntervalMS is the minimum spacing between progress
	// events, in milliseconds.
	DefaultProgressIntervalMS = 50

	// DefaultStopTimeoutMS bounds how long Stop waits for workers to
	// observe the cancellation flag and exit.
	DefaultStopTimeoutMS = 5000
)

// DefaultExclusions are glob patterns skipped during a walk. Kept short:
// pseudo-filesystems and volatile mount points that inflate results
// without representing reclaimable space.
var DefaultExclusions = []string{
	"/proc",
	"/sys",
	"/dev",
	".Trash",
	".Trashes",
}

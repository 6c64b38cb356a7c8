package transfer

import "os"

// Size tiers for connection scaling. Each parallel connection costs a few
// MB of RAM, so large files get fewer connections, not more.
const (
	sizeLarge  int64 = 1 << 30   // 1 GiB
	sizeMedium int64 = 200 << 20 // 200 MiB
)

// Connection caps. Constrained hosts (ephemeral-disk PaaS with tight memory
// limits) get lower ceilings to avoid RAM spikes mid-transfer.
const (
	maxDownloadConstrained = 8
	maxDownload            = 12
	maxUploadConstrained   = 6
	maxUpload              = 8
)

// ConstrainedHost reports whether the process runs on a memory-constrained
// PaaS, detected from the platform's environment markers.
func ConstrainedHost() bool {
	for _, key := range []string{"RENDER", "RENDER_EXTERNAL_URL", "REPLIT_DEPLOYMENT", "REPL_ID"} {
		if os.Getenv(key) != "" {
			return true
		}
	}
	return false
}

// Tuner picks parallel-connection counts for the external transfer
// primitives based on file size and host constraints. It implements no
// transport itself.
type Tuner struct {
	constrained bool
}

func NewTuner() Tuner {
	return Tuner{constrained: ConstrainedHost()}
}

// NewTunerFor builds a tuner with an explicit constraint flag.
func NewTunerFor(constrained bool) Tuner {
	return Tuner{constrained: constrained}
}

// UploadThreads returns the parallel-connection count for an upload:
// minimal for 1GiB+ files, balanced for 200MiB-1GiB, faster below that.
func (t Tuner) UploadThreads(size int64) int {
	switch {
	case size >= sizeLarge:
		return 3
	case size >= sizeMedium:
		return 4
	default:
		return min(6, t.uploadCap())
	}
}

// DownloadThreads returns the parallel-connection count for the parallel
// download path. The default download path streams on a single connection
// and never consults this.
func (t Tuner) DownloadThreads(size int64) int {
	switch {
	case size >= sizeLarge:
		return 4
	case size >= sizeMedium:
		return 6
	default:
		return min(8, t.downloadCap())
	}
}

func (t Tuner) uploadCap() int {
	if t.constrained {
		return maxUploadConstrained
	}
	return maxUpload
}

func (t Tuner) downloadCap() int {
	if t.constrained {
		return maxDownloadConstrained
	}
	return maxDownload
}

package tasks

import "fmt"

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	FetchUsers Phase = iota
	ExportSongs
	WriteManifest
)

func (p Phase) String() string {
	switch p {
	case FetchUsers:
		return "fetch_users"
	case ExportSongs:
		return "export_songs"
	case WriteManifest:
		return "write_manifest"
	default:
		return ""
	}
}

func fetchingUsersUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchUsers,
		Step:    1,
		Total:   1,
		Message: "Fetching users...",
	}
}

func exportCompletedUpdate(step, total int, res UserExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✓ Exported %d songs for %s", res.SongCount, res.Username),
		Data:    res,
	}
}

func exportFailedUpdate(step, total int, res UserExportResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportSongs,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("✗ Failed to export %s: %v", res.Username, res.Error),
		Data:    res,
	}
}

func writingManifestUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteManifest,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing manifest to %s", path),
	}
}

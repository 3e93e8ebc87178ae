package recommend

// State names the phases of one recommendation request. Transitions are
// strictly sequential; no phase begins before its predecessor succeeds.
type State string

const (
	StateReceived        State = "received"
	StateExtracting      State = "extracting"
	StateMapping         State = "mapping"
	StateSearching       State = "searching"
	StateRanking         State = "ranking"
	StatePlaylistPending State = "playlist_pending"
	StatePlaylistCreated State = "playlist_created"
	StatePlaylistSkipped State = "playlist_skipped"
	StateCompleted       State = "completed"
	StateFailed          State = "failed"
)

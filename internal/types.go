package internal

type State string

const (
	NotStarted State = "not-started"
	Ready      State = "ready"
	Stopped    State = "stopped"
)

type Status struct {
	State      State  `json:"state"`
	StorageDir string `json:"storageDir,omitempty"`
	Profile    string `json:"profile,omitempty"`
	Artworks   int    `json:"artworks"`
	Batches    int    `json:"batches"`
}

func NewStatus() *Status {
	status := &Status{}
	status.Reset()
	return status
}

func (s *Status) Reset() {
	s.State = NotStarted
	s.StorageDir = ""
	s.Profile = ""
	s.Artworks = 0
	s.Batches = 0
}

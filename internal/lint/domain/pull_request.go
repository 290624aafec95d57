package domain

// PullRequestEvent holds the details of the pull request that triggered the run.
type PullRequestEvent struct {
	EventName string
	Owner     string
	Repo      string
	Number    int
	HeadSHA   string
	Private   bool
}

// FullName returns "owner/repo".
func (e PullRequestEvent) FullName() string {
	return e.Owner + "/" + e.Repo
}

// File statuses reported by the hosting API.
const (
	FileAdded    = "added"
	FileModified = "modified"
	FileRemoved  = "removed"
	FileRenamed  = "renamed"
)

// ChangedFile is one file touched by the pull request, in API order.
type ChangedFile struct {
	Filename string
	Status   string
	Patch    string
}

// Filenames returns the names of files, preserving order.
func Filenames(files []ChangedFile) []string {
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Filename)
	}
	return names
}

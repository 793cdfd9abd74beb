package index

// CorpusIndex defines the interface for corpus indexing operations.
// Consumers should depend on this interface rather than the concrete
// *DB type to facilitate testing with mocks.
type CorpusIndex interface {
	UpsertDocument(d DocumentRow, body string, links []LinkRow) error
	DeleteDocument(path string) error
	GetChecksum(path string) (string, error)
	AllPaths() (map[string]struct{}, error)
	ListDocuments() ([]DocumentRow, error)
	AllChecksums() (map[string]string, error)
	Backlinks(target string) ([]string, error)
	Orphans(hub string) ([]string, error)
	Graph() ([]GraphNode, []GraphLink, error)
	Search(query string, limit int) ([]SearchResult, error)
	Close() error
}

// Verify *DB satisfies CorpusIndex at compile time.
var _ CorpusIndex = (*DB)(nil)

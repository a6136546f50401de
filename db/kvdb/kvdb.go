package kvdb

const (
	NotesBucket    = "notes"
	HistoryBucket  = "history"
	RequestsBucket = "requests"
)

var buckets = []string{NotesBucket, HistoryBucket, RequestsBucket}

type DB interface {
	Set(bucket string, key string, value string) error
	Get(bucket string, key string) (string, error)
	Delete(bucket string, key string) error
	GetAllKeys(bucket string) ([]string, error)
	GetAll(bucket string) ([]KeyValue, error)
	DeleteAll(bucket string) error
	Close() error
}

package errutil

var (
	// feed の取得まわり
	ErrFetch       = NewInternalError("fetch", "feed fetch error")
	ErrFetchStatus = NewInternalError("fetch_status", "feed fetch status code not ok")
	ErrParse       = NewInternalError("parse", "xmltv parse error")
	ErrDecompress  = NewInternalError("decompress", "feed decompress error")

	// programme 1 件単位で握りつぶすもの
	ErrMalformedTimestamp = NewInternalError("malformed_timestamp", "malformed xmltv timestamp")
	ErrMalformedEntry     = NewInternalError("malformed_entry", "malformed programme entry")

	// channel 単位・cycle 単位
	ErrChannelProcessing = NewInternalError("channel_processing", "channel processing error")
	ErrAllFeedsFailed    = NewInternalError("all_feeds_failed", "all feeds failed")

	ErrDatabaseOpen    = NewInternalError("database_open", "database open error")
	ErrDatabaseQuery   = NewInternalError("database_query", "database query error")
	ErrDatabaseMigrate = NewInternalError("database_migrate", "database migrate error")
	ErrSnapshotWrite   = NewInternalError("snapshot_write", "snapshot write error")
	ErrSnapshotRead    = NewInternalError("snapshot_read", "snapshot read error")
	ErrNotFound        = NewInternalError("not_found", "not found")
	ErrScheduler       = NewInternalError("scheduler", "scheduler error")
	ErrConfig          = NewInternalError("config", "config error")
	// 分類できない系
	ErrInternal = NewInternalError("internal", "internal something error")
)

package domain

// UploadedFile is the ingest-side handle of one multipart file. It lives for
// a single request: the pipeline either relocates TempPath or deletes it.
type UploadedFile struct {
	OriginalName string
	MediaType    string
	TempPath     string
	Size         int64
}

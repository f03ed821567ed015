package domain

// FeedObject — файл выгрузки, который кладётся в объектное хранилище.
type FeedObject struct {
	Bucket      string
	Key         string
	Data        []byte
	ContentType string
}

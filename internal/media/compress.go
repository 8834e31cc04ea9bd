package media

import "context"

// Policy fixes the re-encode parameters applied to every upload.
type Policy struct {
	MaxBytes       int64
	MaxDimensionPx int
	TargetFormat   string
	Quality        int
}

// Compressed is the output of one re-encode pass.
type Compressed struct {
	Data        []byte
	ContentType string
	Ext         string
}

// Compressor re-encodes a raw file under a fixed policy. It never
// inspects content semantically. Any failure, including corrupt input
// or an unsupported type, must come back as an error so the caller
// always receives a typed outcome.
type Compressor interface {
	Compress(ctx context.Context, data []byte, policy Policy) (*Compressed, error)
}

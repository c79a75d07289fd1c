// Package transfer реализует передачу документа частями (chunk stream)
// между серверами: выдачу частей поставщиком и докачиваемую загрузку у получателя.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// DefaultMaxChunkSize - максимальный размер части при зеркалировании (1 MiB)
const DefaultMaxChunkSize int64 = 1024 * 1024

// MaxChunkSizeLimit верхняя граница настраиваемого размера части
const MaxChunkSizeLimit int64 = 16 << 20

// Коды результата для частей
const (
	// ResultOK последняя часть потока
	ResultOK = "OK"
	// ResultChunkOK за этой частью следуют другие
	ResultChunkOK = "CHUNK_OK"
)

var (
	// ErrIntegrity - поставщик прислал часть, противоречащую заявленным размерам
	ErrIntegrity = errors.New("chunk integrity violation")
	// ErrSizeMismatch - итоговый размер не совпал с totalSize
	ErrSizeMismatch = errors.New("total size mismatch")
	// ErrInvalidOffset - запрошено смещение за пределами документа
	ErrInvalidOffset = errors.New("invalid chunk offset")
)

// Chunk is one fragment of a document stream.
type Chunk struct {
	ResultCode string `json:"result_code"`
	Payload    []byte `json:"payload"`
	TotalSize  int64  `json:"total_size"`
	ChunkSize  int64  `json:"chunk_size"`
}

// IsLast reports whether the supplier marked this chunk as the final one.
func (c *Chunk) IsLast() bool {
	return c.ResultCode == ResultOK
}

// Source выдаёт части одного документа
type Source interface {
	GetChunk(ctx context.Context, offset, maxSize int64) (*Chunk, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, offset, maxSize int64) (*Chunk, error)

// GetChunk calls f.
func (f SourceFunc) GetChunk(ctx context.Context, offset, maxSize int64) (*Chunk, error) {
	return f(ctx, offset, maxSize)
}

// ServeChunk читает одну часть из payload длиной total.
// Размер части = min(total-offset, maxSize). Последняя часть получает код OK.
func ServeChunk(payload io.ReaderAt, total, offset, maxSize int64) (*Chunk, error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("%w: max size %d", ErrInvalidOffset, maxSize)
	}
	if offset < 0 || offset > total || (offset == total && total > 0) {
		return nil, fmt.Errorf("%w: offset %d of %d", ErrInvalidOffset, offset, total)
	}

	size := min(total-offset, maxSize)
	buf := make([]byte, size)
	if size > 0 {
		n, err := payload.ReadAt(buf, offset)
		// io.ReaderAt может вернуть io.EOF вместе с полным буфером на последней части
		if err != nil && !(errors.Is(err, io.EOF) && int64(n) == size) {
			return nil, fmt.Errorf("failed to read chunk at %d: %w", offset, err)
		}
	}

	code := ResultChunkOK
	if offset+size >= total {
		code = ResultOK
	}

	return &Chunk{
		ResultCode: code,
		TotalSize:  total,
		ChunkSize:  size,
		Payload:    buf,
	}, nil
}

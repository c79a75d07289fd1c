package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

const (
	partSuffix     = ".part"
	progressSuffix = ".progress"
)

// errStaleResume - поставщик сообщил другой totalSize для прерванной загрузки
var errStaleResume = errors.New("supplier total changed since partial download")

// Fetcher собирает документ из частей, проверяя согласованность каждой части.
type Fetcher struct {
	logger       *slog.Logger
	MaxChunkSize int64
}

// NewFetcher создаёт Fetcher. maxChunkSize <= 0 означает DefaultMaxChunkSize.
func NewFetcher(logger *slog.Logger, maxChunkSize int64) *Fetcher {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	return &Fetcher{logger: logger, MaxChunkSize: maxChunkSize}
}

// Fetch запрашивает части начиная с offset и пишет их в dst до достижения totalSize.
// Возвращает totalSize документа.
func (f *Fetcher) Fetch(ctx context.Context, src Source, dst io.Writer, offset int64) (int64, error) {
	return f.fetch(ctx, src, dst, offset, -1, nil)
}

// fetch - общий цикл. expectTotal < 0 означает, что размер заранее неизвестен.
// onChunk вызывается после записи каждой части с новым смещением.
func (f *Fetcher) fetch(
	ctx context.Context,
	src Source,
	dst io.Writer,
	offset, expectTotal int64,
	onChunk func(offset, total int64) error,
) (int64, error) {
	total := expectTotal
	first := true

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		chunk, err := src.GetChunk(ctx, offset, f.MaxChunkSize)
		if err != nil {
			return total, err
		}

		if err := f.check(chunk, offset, total); err != nil {
			// первый ответ после возобновления с другим размером
			if first && expectTotal >= 0 && chunk != nil && chunk.TotalSize != expectTotal {
				return total, fmt.Errorf("%w: %v", errStaleResume, err)
			}
			return total, err
		}
		total = chunk.TotalSize
		first = false

		if chunk.ChunkSize > 0 {
			if _, err := dst.Write(chunk.Payload); err != nil {
				return total, fmt.Errorf("failed to write chunk: %w", err)
			}
		}
		offset += chunk.ChunkSize

		f.logger.Debug("Chunk received",
			"offset", offset,
			"total", total,
			"chunk_size", chunk.ChunkSize,
		)

		if onChunk != nil {
			if err := onChunk(offset, total); err != nil {
				return total, err
			}
		}

		if offset == total {
			return total, nil
		}
		if chunk.IsLast() {
			return total, fmt.Errorf("%w: final chunk ends at %d of %d", ErrSizeMismatch, offset, total)
		}
	}
}

// check проверяет часть относительно текущего смещения и известного размера
func (f *Fetcher) check(chunk *Chunk, offset, total int64) error {
	switch {
	case chunk == nil:
		return fmt.Errorf("%w: empty response", ErrIntegrity)
	case chunk.ResultCode != ResultOK && chunk.ResultCode != ResultChunkOK:
		return fmt.Errorf("%w: result code %q", ErrIntegrity, chunk.ResultCode)
	case chunk.TotalSize < 0 || chunk.ChunkSize < 0:
		return fmt.Errorf("%w: negative size", ErrIntegrity)
	case total >= 0 && chunk.TotalSize != total:
		return fmt.Errorf("%w: total changed from %d to %d", ErrSizeMismatch, total, chunk.TotalSize)
	case chunk.ChunkSize != int64(len(chunk.Payload)):
		return fmt.Errorf("%w: chunk size %d but payload %d", ErrIntegrity, chunk.ChunkSize, len(chunk.Payload))
	case chunk.ChunkSize > f.MaxChunkSize:
		return fmt.Errorf("%w: chunk size %d exceeds requested %d", ErrIntegrity, chunk.ChunkSize, f.MaxChunkSize)
	case offset+chunk.ChunkSize > chunk.TotalSize:
		return fmt.Errorf("%w: chunk ends at %d beyond total %d", ErrIntegrity, offset+chunk.ChunkSize, chunk.TotalSize)
	case chunk.ChunkSize == 0 && offset < chunk.TotalSize:
		return fmt.Errorf("%w: zero-length chunk at %d of %d", ErrIntegrity, offset, chunk.TotalSize)
	}
	return nil
}

// progress - содержимое файла-спутника незавершённой загрузки
type progress struct {
	Total  int64 `json:"total"`
	Offset int64 `json:"offset"`
}

// FetchFile загружает документ в path с возможностью докачки.
// Данные пишутся в path.part, смещение - в path.progress. Ошибки целостности
// удаляют частичные данные, транспортные ошибки их сохраняют для следующей попытки.
// Возвращает размер документа.
func (f *Fetcher) FetchFile(ctx context.Context, src Source, path string) (int64, error) {
	offset, expectTotal := f.resumePoint(path)

	total, err := f.fetchToPart(ctx, src, path, offset, expectTotal)
	if errors.Is(err, errStaleResume) {
		f.logger.Info("Partial download is stale, restarting",
			"path", path,
			"offset", offset,
		)
		DiscardPartial(path)
		total, err = f.fetchToPart(ctx, src, path, 0, -1)
	}
	if err != nil {
		if errors.Is(err, ErrIntegrity) || errors.Is(err, ErrSizeMismatch) {
			DiscardPartial(path)
		}
		return total, err
	}

	if err := os.Rename(path+partSuffix, path); err != nil {
		return total, fmt.Errorf("failed to finalize download: %w", err)
	}
	_ = os.Remove(path + progressSuffix)
	return total, nil
}

// resumePoint возвращает смещение для продолжения и ожидаемый размер.
// При любом несоответствии частичные данные удаляются и загрузка начинается с нуля.
func (f *Fetcher) resumePoint(path string) (int64, int64) {
	data, err := os.ReadFile(path + progressSuffix)
	if err != nil {
		DiscardPartial(path)
		return 0, -1
	}

	var p progress
	if err := json.Unmarshal(data, &p); err != nil || p.Offset <= 0 || p.Offset >= p.Total {
		DiscardPartial(path)
		return 0, -1
	}

	info, err := os.Stat(path + partSuffix)
	if err != nil || info.Size() != p.Offset {
		DiscardPartial(path)
		return 0, -1
	}

	f.logger.Debug("Resuming partial download",
		"path", path,
		"offset", p.Offset,
		"total", p.Total,
	)
	return p.Offset, p.Total
}

func (f *Fetcher) fetchToPart(ctx context.Context, src Source, path string, offset, expectTotal int64) (int64, error) {
	file, err := os.OpenFile(path+partSuffix, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return 0, fmt.Errorf("failed to open partial file: %w", err)
	}
	defer file.Close()

	if err := file.Truncate(offset); err != nil {
		return 0, fmt.Errorf("failed to truncate partial file: %w", err)
	}
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to seek partial file: %w", err)
	}

	total, err := f.fetch(ctx, src, file, offset, expectTotal, func(off, tot int64) error {
		return writeProgress(path, progress{Total: tot, Offset: off})
	})
	if err != nil {
		return total, err
	}

	if err := file.Sync(); err != nil {
		return total, fmt.Errorf("failed to sync partial file: %w", err)
	}
	return total, nil
}

// writeProgress атомарно заменяет файл-спутник
func writeProgress(path string, p progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal progress: %w", err)
	}
	tmp := path + progressSuffix + "." + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	if err := os.Rename(tmp, path+progressSuffix); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace progress: %w", err)
	}
	return nil
}

// DiscardPartial удаляет частичные данные незавершённой загрузки path
func DiscardPartial(path string) {
	_ = os.Remove(path + partSuffix)
	_ = os.Remove(path + progressSuffix)
}

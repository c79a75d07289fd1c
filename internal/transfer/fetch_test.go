package transfer

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	handler := slog.NewTextHandler(os.Stdout, opts)
	return slog.New(handler)
}

var errTransport = errors.New("connection reset")

// memSource отдаёт части из памяти, опционально искажая их
type memSource struct {
	mutate  func(call int, c *Chunk)
	payload []byte
	offsets []int64
	failAt  int // номер вызова (с 1), на котором вернуть транспортную ошибку
	calls   int
}

func (s *memSource) GetChunk(_ context.Context, offset, maxSize int64) (*Chunk, error) {
	s.calls++
	s.offsets = append(s.offsets, offset)
	if s.failAt == s.calls {
		return nil, errTransport
	}
	c, err := ServeChunk(bytes.NewReader(s.payload), int64(len(s.payload)), offset, maxSize)
	if err != nil {
		return nil, err
	}
	if s.mutate != nil {
		s.mutate(s.calls, c)
	}
	return c, nil
}

func TestFetcher_Fetch(t *testing.T) {
	payload := bytes.Repeat([]byte("abcdefgh"), 5) // 40 bytes
	f := NewFetcher(setupTestLogger(), 16)

	src := &memSource{payload: payload}
	var buf bytes.Buffer
	total, err := f.Fetch(context.Background(), src, &buf, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(40), total)
	assert.Equal(t, payload, buf.Bytes())
	assert.Equal(t, []int64{0, 16, 32}, src.offsets)
}

func TestFetcher_Fetch_EmptyDocument(t *testing.T) {
	f := NewFetcher(setupTestLogger(), 16)
	var buf bytes.Buffer

	total, err := f.Fetch(context.Background(), &memSource{}, &buf, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Equal(t, 0, buf.Len())
}

func TestFetcher_Fetch_IntegrityViolations(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 40)

	tests := []struct {
		mutate  func(call int, c *Chunk)
		wantErr error
		name    string
	}{
		{
			name:    "payload shorter than chunk size",
			mutate:  func(_ int, c *Chunk) { c.Payload = c.Payload[:len(c.Payload)-1] },
			wantErr: ErrIntegrity,
		},
		{
			name:    "total changes between chunks",
			mutate: func(call int, c *Chunk) {
				if call == 2 {
					c.TotalSize = 100
				}
			},
			wantErr: ErrSizeMismatch,
		},
		{
			name: "zero progress chunk",
			mutate: func(_ int, c *Chunk) {
				c.ChunkSize = 0
				c.Payload = nil
			},
			wantErr: ErrIntegrity,
		},
		{
			name:    "chunk overruns total",
			mutate:  func(_ int, c *Chunk) { c.TotalSize = 10 },
			wantErr: ErrIntegrity,
		},
		{
			name:    "premature final chunk",
			mutate:  func(_ int, c *Chunk) { c.ResultCode = ResultOK },
			wantErr: ErrSizeMismatch,
		},
		{
			name:    "unknown result code",
			mutate:  func(_ int, c *Chunk) { c.ResultCode = "SERVER_ERROR" },
			wantErr: ErrIntegrity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFetcher(setupTestLogger(), 16)
			var buf bytes.Buffer
			_, err := f.Fetch(context.Background(), &memSource{payload: payload, mutate: tt.mutate}, &buf, 0)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFetcher_Fetch_OversizedChunk(t *testing.T) {
	big := SourceFunc(func(_ context.Context, _, _ int64) (*Chunk, error) {
		return &Chunk{ResultCode: ResultOK, TotalSize: 32, ChunkSize: 32, Payload: make([]byte, 32)}, nil
	})
	f := NewFetcher(setupTestLogger(), 16)

	_, err := f.Fetch(context.Background(), big, &bytes.Buffer{}, 0)
	assert.ErrorIs(t, err, ErrIntegrity)
}

func TestFetcher_FetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc")
	payload := bytes.Repeat([]byte("0123456789"), 10)
	f := NewFetcher(setupTestLogger(), 30)

	total, err := f.FetchFile(context.Background(), &memSource{payload: payload}, path)
	require.NoError(t, err)
	assert.Equal(t, int64(100), total)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	assert.NoFileExists(t, path+partSuffix)
	assert.NoFileExists(t, path+progressSuffix)
}

func TestFetcher_FetchFile_ResumeAfterTransportError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc")
	payload := bytes.Repeat([]byte("0123456789"), 10)
	f := NewFetcher(setupTestLogger(), 30)

	// третий запрос обрывается: 60 байт уже записаны
	first := &memSource{payload: payload, failAt: 3}
	_, err := f.FetchFile(context.Background(), first, path)
	require.ErrorIs(t, err, errTransport)
	assert.FileExists(t, path+partSuffix)
	assert.FileExists(t, path+progressSuffix)

	second := &memSource{payload: payload}
	total, err := f.FetchFile(context.Background(), second, path)
	require.NoError(t, err)
	assert.Equal(t, int64(100), total)
	assert.Equal(t, []int64{60, 90}, second.offsets, "загрузка должна продолжиться с сохранённого смещения")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFetcher_FetchFile_RestartWhenSupplierChanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc")
	f := NewFetcher(setupTestLogger(), 30)

	_, err := f.FetchFile(context.Background(), &memSource{payload: bytes.Repeat([]byte("a"), 100), failAt: 2}, path)
	require.ErrorIs(t, err, errTransport)

	// поставщик теперь отдаёт другую версию документа
	changed := bytes.Repeat([]byte("b"), 50)
	src := &memSource{payload: changed}
	total, err := f.FetchFile(context.Background(), src, path)
	require.NoError(t, err)
	assert.Equal(t, int64(50), total)
	assert.Equal(t, int64(0), src.offsets[len(src.offsets)-2], "после несовпадения загрузка начинается с нуля")

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, changed, got)
}

func TestFetcher_FetchFile_RestartWhenPartialCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc")
	payload := bytes.Repeat([]byte("z"), 90)
	f := NewFetcher(setupTestLogger(), 30)

	_, err := f.FetchFile(context.Background(), &memSource{payload: payload, failAt: 2}, path)
	require.ErrorIs(t, err, errTransport)

	// длина частичного файла больше не совпадает с сохранённым смещением
	require.NoError(t, os.WriteFile(path+partSuffix, []byte("short"), 0o600))

	src := &memSource{payload: payload}
	_, err = f.FetchFile(context.Background(), src, path)
	require.NoError(t, err)
	assert.Equal(t, int64(0), src.offsets[0])
}

func TestFetcher_FetchFile_IntegrityDiscardsPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc")
	f := NewFetcher(setupTestLogger(), 10)

	src := &memSource{
		payload: bytes.Repeat([]byte("q"), 40),
		mutate: func(call int, c *Chunk) {
			if call == 3 {
				c.Payload = append(c.Payload, 'x')
			}
		},
	}
	_, err := f.FetchFile(context.Background(), src, path)
	require.ErrorIs(t, err, ErrIntegrity)

	assert.NoFileExists(t, path)
	assert.NoFileExists(t, path+partSuffix)
	assert.NoFileExists(t, path+progressSuffix)
}

func TestFetcher_FetchFile_ContextCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc")
	f := NewFetcher(setupTestLogger(), 10)

	ctx, cancel := context.WithCancel(context.Background())
	src := SourceFunc(func(_ context.Context, offset, maxSize int64) (*Chunk, error) {
		cancel()
		return ServeChunk(bytes.NewReader(make([]byte, 30)), 30, offset, maxSize)
	})

	_, err := f.FetchFile(ctx, src, path)
	require.ErrorIs(t, err, context.Canceled)
	assert.FileExists(t, path+partSuffix, "частичные данные сохраняются при отмене")
}

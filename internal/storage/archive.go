package storage

import (
	"bufio"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	apperrors "github.com/Noty-chan/aether-journal/internal/errors"
)

// maxArchiveSize bounds the decompressed size of an imported archive.
const maxArchiveSize = 64 << 20

// WriteArchive streams the whole store as zstd-compressed JSON.
func (r *JSONRepository) WriteArchive(w io.Writer) error {
	content, err := r.ExportData()
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("create zstd writer: %w", err)
	}
	bw := bufio.NewWriterSize(enc, 64*1024)
	if _, err := bw.Write(content); err != nil {
		_ = enc.Close()
		return fmt.Errorf("write archive: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = enc.Close()
		return fmt.Errorf("flush archive: %w", err)
	}
	return enc.Close()
}

// ReadArchive decompresses an archive produced by WriteArchive and imports
// it with ImportData.
func (r *JSONRepository) ReadArchive(rd io.Reader) error {
	dec, err := zstd.NewReader(rd)
	if err != nil {
		return apperrors.NewValidationError("Invalid archive", err)
	}
	defer dec.Close()

	content, err := io.ReadAll(io.LimitReader(bufio.NewReader(dec), maxArchiveSize+1))
	if err != nil {
		return apperrors.NewValidationError("Invalid archive", err)
	}
	if len(content) > maxArchiveSize {
		return apperrors.NewValidationError("Archive is too large", nil)
	}
	return r.ImportData(content)
}

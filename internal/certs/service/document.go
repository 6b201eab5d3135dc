package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"

	"github.com/usapupgrade/certs/internal/certs/domain"
)

const DefaultArchivePrefix = "certificates"

type CertificateRenderer interface {
	Render(w io.Writer, c domain.Certificate) error
}

type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string, metadata map[string]string) error
}

// PDFArchiver renders each issued certificate and uploads it.
type PDFArchiver struct {
	Renderer CertificateRenderer
	Objects  ObjectStore
	Prefix   string
}

// ArchiveKey is the object key for c's PDF.
func (a *PDFArchiver) ArchiveKey(c domain.Certificate) string {
	prefix := a.Prefix
	if prefix == "" {
		prefix = DefaultArchivePrefix
	}
	return path.Join(prefix, c.ID+".pdf")
}

func (a *PDFArchiver) ArchiveCertificate(ctx context.Context, c domain.Certificate) error {
	var buf bytes.Buffer
	if err := a.Renderer.Render(&buf, c); err != nil {
		return err
	}

	err := a.Objects.Put(ctx, a.ArchiveKey(c), buf.Bytes(), "application/pdf", map[string]string{
		"user-id": c.UserID,
		"hash":    c.Hash,
	})
	if err != nil {
		return fmt.Errorf("archive certificate %s: %w", c.ID, err)
	}
	return nil
}

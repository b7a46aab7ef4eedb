package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Rohit-3/Ratan-agri-tech/internal/payment"
)

// FileStore keeps rendered invoices on the local filesystem as
// "{invoice_id}.pdf" under a single directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating invoice directory: %w", err)
	}

	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(invoiceID string) (string, error) {
	// Invoice ids come from user-facing URLs; keep them out of parent dirs.
	if invoiceID == "" || strings.ContainsAny(invoiceID, `/\`) || strings.Contains(invoiceID, "..") {
		return "", payment.ErrDocumentNotFound
	}

	return filepath.Join(s.dir, invoiceID+".pdf"), nil
}

// Put writes the document, replacing any previous one for the same id.
func (s *FileStore) Put(invoiceID string, doc []byte) error {
	path, err := s.path(invoiceID)
	if err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, doc, 0o644); err != nil {
		return fmt.Errorf("writing invoice document: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("publishing invoice document: %w", err)
	}

	return nil
}

func (s *FileStore) Get(invoiceID string) ([]byte, error) {
	path, err := s.path(invoiceID)
	if err != nil {
		return nil, err
	}

	doc, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, payment.ErrDocumentNotFound
		}

		return nil, fmt.Errorf("reading invoice document: %w", err)
	}

	return doc, nil
}

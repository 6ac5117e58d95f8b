package prompts

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/nexusllm/pkg/chatmodel"
)

// FileSystemProvider serves prompts from files under a base directory.
// The key is a path relative to the base directory. Few-shot example files
// are JSON lists of prompt and completion pairs.
type FileSystemProvider struct {
	baseDir string
}

var _ Provider = (*FileSystemProvider)(nil)

// NewFileSystemProvider creates a provider rooted at the given directory.
func NewFileSystemProvider(baseDir string) (*FileSystemProvider, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base directory")
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "base directory %q", baseDir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("not a directory: %s", baseDir)
	}
	return &FileSystemProvider{baseDir: abs}, nil
}

// resolve maps a key to a file path under the base directory,
// rejecting keys that escape it.
func (p *FileSystemProvider) resolve(key string) (string, error) {
	full := filepath.Join(p.baseDir, filepath.Clean("/"+key))
	if full != p.baseDir && !strings.HasPrefix(full, p.baseDir+string(filepath.Separator)) {
		return "", errors.Errorf("invalid key: %s", key)
	}
	return full, nil
}

// Template implements the Provider interface.
func (p *FileSystemProvider) Template(ctx context.Context, key string) (string, error) {
	full, err := p.resolve(key)
	if err != nil {
		return "", err
	}
	bs, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.WithMessagef(ErrPromptNotFound, "key %q", key)
		}
		return "", errors.Wrapf(err, "failed to read prompt %q", key)
	}
	return string(bs), nil
}

// FewShotExamples implements the Provider interface.
func (p *FileSystemProvider) FewShotExamples(ctx context.Context, key string) (chatmodel.FewShotExamples, error) {
	full, err := p.resolve(key)
	if err != nil {
		return nil, err
	}
	bs, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WithMessagef(ErrPromptNotFound, "key %q", key)
		}
		return nil, errors.Wrapf(err, "failed to read examples %q", key)
	}

	var examples chatmodel.FewShotExamples
	err = json.Unmarshal(bs, &examples)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse examples %q", key)
	}
	return examples, nil
}

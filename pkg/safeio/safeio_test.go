package safeio

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestWriteFileAtomic_NewFile(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "requirements.txt")
	testData := []byte("requests == 2.31.0\n")

	if err := WriteFileAtomic(testFile, testData); err != nil {
		t.Fatalf("WriteFileAtomic() failed for new file: %v", err)
	}

	content, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read test file: %v", err)
	}
	if string(content) != string(testData) {
		t.Errorf("File content mismatch: got %q, expected %q", string(content), string(testData))
	}

	if runtime.GOOS == "windows" {
		return
	}
	stat, err := os.Stat(testFile)
	if err != nil {
		t.Fatalf("Failed to stat test file: %v", err)
	}
	if stat.Mode().Perm() != 0o644 {
		t.Errorf("File permissions: got %s, expected %s", stat.Mode().Perm(), os.FileMode(0o644))
	}
}

func TestWriteFileAtomic_PreservesPerms(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not preserved on windows")
	}
	testFile := filepath.Join(t.TempDir(), "requirements.txt")
	if err := os.WriteFile(testFile, []byte("old\n"), 0o600); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	if err := WriteFileAtomic(testFile, []byte("new\n")); err != nil {
		t.Fatalf("WriteFileAtomic() failed for existing file: %v", err)
	}

	content, err := os.ReadFile(testFile)
	if err != nil {
		t.Fatalf("Failed to read test file: %v", err)
	}
	if string(content) != "new\n" {
		t.Errorf("File content mismatch: got %q", string(content))
	}
	stat, err := os.Stat(testFile)
	if err != nil {
		t.Fatalf("Failed to stat test file after write: %v", err)
	}
	if stat.Mode().Perm() != 0o600 {
		t.Errorf("File permissions changed: now %s", stat.Mode().Perm())
	}
}

func TestWriteFileAtomic_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	if err := WriteFileAtomic(filepath.Join(dir, "out.txt"), []byte("x")); err != nil {
		t.Fatalf("WriteFileAtomic() failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("Failed to list dir: %v", err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp-") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one file, got %d", len(entries))
	}
}

func TestWriteFileAtomic_Errors(t *testing.T) {
	if err := WriteFileAtomic("/non/existent/directory/file.txt", []byte("x")); err == nil {
		t.Error("WriteFileAtomic() should fail for non-existent directory")
	}
	if err := WriteFileAtomic(t.TempDir(), []byte("x")); err == nil {
		t.Error("WriteFileAtomic() should refuse to replace a directory")
	}
}

func TestReadFileContained(t *testing.T) {
	// Create temporary directory structure for testing
	tempDir := t.TempDir()

	// Create a subdirectory and a file inside it
	subDir := filepath.Join(tempDir, "subdir")
	err := os.MkdirAll(subDir, 0o755)
	if err != nil {
		t.Fatalf("Failed to create subdirectory: %v", err)
	}

	testFile := filepath.Join(subDir, "test.txt")
	testData := []byte("test data for safe reading")
	err = os.WriteFile(testFile, testData, 0o644)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// Create a file outside the base directory for traversal tests
	outsideFile := filepath.Join(filepath.Dir(tempDir), "outside.txt")
	outsideData := []byte("outside data")
	err = os.WriteFile(outsideFile, outsideData, 0o644)
	if err != nil {
		t.Fatalf("Failed to create outside file: %v", err)
	}
	defer func() {
		if err := os.Remove(outsideFile); err != nil {
			t.Logf("Warning: failed to remove outside file: %v", err)
		}
	}()

	tests := []struct {
		name      string
		baseDir   string
		filePath  string
		wantError bool
		wantData  []byte
	}{
		{
			name:      "file within baseDir",
			baseDir:   tempDir,
			filePath:  testFile,
			wantError: false,
			wantData:  testData,
		},
		{
			name:      "file in subdirectory",
			baseDir:   tempDir,
			filePath:  filepath.Join(tempDir, "subdir", "test.txt"),
			wantError: false,
			wantData:  testData,
		},
		{
			name:      "path traversal attempt",
			baseDir:   subDir,
			filePath:  filepath.Join(subDir, "..", "..", "outside.txt"),
			wantError: true,
		},
		{
			name:      "file outside baseDir",
			baseDir:   tempDir,
			filePath:  outsideFile,
			wantError: true,
		},
		{
			name:      "non-existent file within baseDir",
			baseDir:   tempDir,
			filePath:  filepath.Join(tempDir, "nonexistent.txt"),
			wantError: true,
		},
		{
			name:      "relative file resolved against cwd",
			baseDir:   ".",
			filePath:  "safeio.go",
			wantError: false,
			wantData:  mustRead(t, "safeio.go"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFileContained(tt.baseDir, tt.filePath)

			if tt.wantError {
				if err == nil {
					t.Errorf("ReadFileContained(%q, %q) expected error but got none", tt.baseDir, tt.filePath)
				}
			} else {
				if err != nil {
					t.Errorf("ReadFileContained(%q, %q) unexpected error: %v", tt.baseDir, tt.filePath, err)
				}
				if string(data) != string(tt.wantData) {
					t.Errorf("ReadFileContained(%q, %q) = %q, expected %q", tt.baseDir, tt.filePath, string(data), string(tt.wantData))
				}
			}
		})
	}
}

func TestReadFileContained_NotExistIsDetectable(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadFileContained(dir, filepath.Join(dir, "missing.toml"))
	if err == nil || !os.IsNotExist(err) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}

func mustRead(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return data
}

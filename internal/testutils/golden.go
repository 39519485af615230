package testutils

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pmezard/go-difflib/difflib"
)

// CheckGoldenFile compares actual with the content of expectFilePath.
// A missing golden file is created from actual.
func CheckGoldenFile(t TestingT, actual []byte, expectFilePath string) {
	t.Helper()

	expect, err := os.ReadFile(expectFilePath)
	if os.IsNotExist(err) {
		err = os.MkdirAll(filepath.Dir(expectFilePath), 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(expectFilePath, actual, 0644)
		if err != nil {
			t.Fatal(err)
		}
		return
	} else if err != nil {
		t.Error(err)
		return
	}

	if string(expect) != string(actual) {
		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(expect)),
			B:        difflib.SplitLines(string(actual)),
			FromFile: "expected",
			ToFile:   "actual",
			Context:  5,
		}
		d, err := difflib.GetUnifiedDiffString(diff)
		if err != nil {
			t.Fatal(err)
		}
		t.Error(d)
	}
}

// CheckGoldenJSON indents actual before comparing so golden files stay reviewable.
func CheckGoldenJSON(t TestingT, actual []byte, expectFilePath string) {
	t.Helper()

	var buf bytes.Buffer
	if err := json.Indent(&buf, actual, "", "  "); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, actual)
	}
	buf.WriteString("\n")

	CheckGoldenFile(t, buf.Bytes(), expectFilePath)
}

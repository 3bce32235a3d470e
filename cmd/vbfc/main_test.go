package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunEmitTokens(t *testing.T) {
	src := `Sub Hello()
MsgBox "hi"
End Sub
`
	filename := writeTempBasFile(t, src)
	code, out, errOut := captureOutput(t, func() int {
		return runEmitTokens(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitTokens exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
	if !strings.Contains(out, "POSITION") {
		t.Fatalf("token dump missing header:\n%s", out)
	}
	if !strings.Contains(out, "KEYWORD") || !strings.Contains(out, "IDENT") {
		t.Fatalf("token dump missing token kinds:\n%s", out)
	}
	if !strings.Contains(out, `"hi"`) {
		t.Fatalf("token dump missing string literal text:\n%s", out)
	}
	if !strings.Contains(out, "EOF") {
		t.Fatalf("token dump missing EOF sentinel:\n%s", out)
	}
}

func TestRunEmitAST(t *testing.T) {
	src := `Sub Greet()
Dim msg As String
msg = "hello"
End Sub
`
	filename := writeTempBasFile(t, src)
	code, out, errOut := captureOutput(t, func() int {
		return runEmitAST(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitAST exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if errOut != "" {
		t.Fatalf("unexpected stderr:\n%s", errOut)
	}
	if !strings.Contains(out, "Greet") {
		t.Fatalf("AST output missing procedure name:\n%s", out)
	}
	if !strings.Contains(out, "msg") {
		t.Fatalf("AST output missing variable name:\n%s", out)
	}
}

func TestRunEmitASTJSON(t *testing.T) {
	src := `Sub T()
End Sub
`
	filename := writeTempBasFile(t, src)

	*astFormat = "json"
	defer func() { *astFormat = "text" }()

	code, out, errOut := captureOutput(t, func() int {
		return runEmitAST(filename)
	})

	if code != 0 {
		t.Fatalf("runEmitAST exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if !strings.Contains(out, `"Module"`) {
		t.Fatalf("JSON output missing module node:\n%s", out)
	}
	if !strings.Contains(out, `"T"`) {
		t.Fatalf("JSON output missing procedure name:\n%s", out)
	}
}

func TestRunCheckReportsDiagnostics(t *testing.T) {
	src := `Sub T()
Dim z As Integer
Exit Sub
z = 1
End Sub
`
	filename := writeTempBasFile(t, src)
	code, out, errOut := captureOutput(t, func() int {
		return runCheck(filename)
	})

	// Warnings only: exit code stays 0.
	if code != 0 {
		t.Fatalf("runCheck exit=%d\nstderr:\n%s\nstdout:\n%s", code, errOut, out)
	}
	if !strings.Contains(errOut, "UNREACHABLE_CODE") {
		t.Fatalf("diagnostics missing UNREACHABLE_CODE:\n%s", errOut)
	}
	if !strings.Contains(out, "1 procedures") {
		t.Fatalf("summary line missing:\n%s", out)
	}
}

func TestRunCheckFailsOnErrors(t *testing.T) {
	src := `Sub T()
Frobnicate 1
End Sub
`
	filename := writeTempBasFile(t, src)
	code, _, errOut := captureOutput(t, func() int {
		return runCheck(filename)
	})

	if code != 1 {
		t.Fatalf("runCheck exit=%d, want 1\nstderr:\n%s", code, errOut)
	}
	if !strings.Contains(errOut, "UNDEFINED_FUNCTION") {
		t.Fatalf("diagnostics missing UNDEFINED_FUNCTION:\n%s", errOut)
	}
}

func TestRunParseReportsSyntaxErrors(t *testing.T) {
	src := `Sub T(
End Sub
`
	filename := writeTempBasFile(t, src)
	code, _, errOut := captureOutput(t, func() int {
		return runParse(filename)
	})

	if code != 1 {
		t.Fatalf("runParse exit=%d, want 1", code)
	}
	if errOut == "" {
		t.Fatal("expected syntax errors on stderr")
	}
}

func writeTempBasFile(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	filename := filepath.Join(dir, "input.bas")
	if err := os.WriteFile(filename, []byte(src), 0o600); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return filename
}

func captureOutput(t *testing.T, fn func() int) (code int, stdout string, stderr string) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stdout: %v", err)
	}
	rErr, wErr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe stderr: %v", err)
	}

	os.Stdout = wOut
	os.Stderr = wErr

	code = fn()

	_ = wOut.Close()
	_ = wErr.Close()
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	outBytes, _ := io.ReadAll(rOut)
	errBytes, _ := io.ReadAll(rErr)
	_ = rOut.Close()
	_ = rErr.Close()

	return code, string(outBytes), string(errBytes)
}

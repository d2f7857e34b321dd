package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrNoEditor is returned when neither VISUAL nor EDITOR is set.
var ErrNoEditor = errors.New("EDITOR not set, set it or pass the fields as flags instead of -i")

// ErrUnchanged is returned by EditYAML when the buffer was saved as-is.
var ErrUnchanged = errors.New("no changes made")

// editorCommand returns the configured editor, VISUAL first.
func editorCommand() string {
	if v := os.Getenv("VISUAL"); v != "" {
		return v
	}
	return os.Getenv("EDITOR")
}

// EditBytes writes content to a temp file named with suffix, opens it in the
// user's editor and returns what was saved.
func EditBytes(content []byte, suffix string) ([]byte, error) {
	editor := editorCommand()
	if editor == "" {
		return nil, ErrNoEditor
	}

	f, err := os.CreateTemp("", "storefront-*"+suffix)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)

	_, werr := f.Write(content)
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return nil, fmt.Errorf("write temp file: %w", werr)
	}

	if err := launch(editor, path); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}
	return edited, nil
}

// EditYAML renders v as YAML under a comment header, lets the user edit it
// and decodes the result back into v. Lines starting with '#' are ignored
// by the decoder. v is left untouched when decoding fails.
func EditYAML[T any](v *T, header string) error {
	body, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	var buf bytes.Buffer
	for _, line := range strings.Split(strings.TrimRight(header, "\n"), "\n") {
		if line != "" {
			buf.WriteString("# " + line + "\n")
		}
	}
	buf.Write(body)
	original := buf.Bytes()

	edited, err := EditBytes(original, ".yaml")
	if err != nil {
		return err
	}
	if bytes.Equal(edited, original) {
		return ErrUnchanged
	}

	var out T
	if err := yaml.Unmarshal(edited, &out); err != nil {
		return fmt.Errorf("parse edited yaml: %w", err)
	}
	*v = out
	return nil
}

// launch runs editor on path, attached to the current terminal. The editor
// string may carry arguments, e.g. "code --wait".
func launch(editor, path string) error {
	fields := strings.Fields(editor)
	if len(fields) == 0 {
		return errors.New("empty editor command")
	}

	cmd := exec.Command(fields[0], append(fields[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("editor exited with status %d", exitErr.ExitCode())
		}
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}

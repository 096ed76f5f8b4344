package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
)

// ErrPromptCancelled is returned when the user aborts a prompt.
var ErrPromptCancelled = errors.New("prompt cancelled")

// defaultMenuSize is the number of items visible in selection menus.
const defaultMenuSize = 10

// Prompter asks the user for input.
type Prompter interface {
	Select(label string, items []string, defaultValue string) (int, string, error)
	Prompt(label string) (string, error)
}

// prompter is replaced in tests.
var prompter Prompter = NewPromptUI(os.Stdin, os.Stdout)

// PromptUI implements Prompter on a terminal with promptui.
type PromptUI struct {
	stdin  io.ReadCloser
	stdout io.WriteCloser
}

// NewPromptUI returns a PromptUI reading stdin and drawing on stdout.
func NewPromptUI(stdin io.Reader, stdout io.Writer) *PromptUI {
	return &PromptUI{stdin: toReadCloser(stdin), stdout: toWriteCloser(stdout)}
}

func (p *PromptUI) Select(label string, items []string, defaultValue string) (int, string, error) {
	cursor := 0
	for i, item := range items {
		if item == defaultValue {
			cursor = i
			break
		}
	}

	sel := promptui.Select{
		Label:     label,
		Items:     items,
		Size:      defaultMenuSize,
		HideHelp:  true,
		CursorPos: cursor,
		Stdin:     p.stdin,
		Stdout:    p.stdout,
	}
	idx, value, err := sel.Run()
	if err != nil {
		return idx, value, fmt.Errorf("%w: %v", ErrPromptCancelled, err)
	}
	return idx, value, nil
}

func (p *PromptUI) Prompt(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:  label,
		Stdin:  p.stdin,
		Stdout: p.stdout,
	}
	value, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPromptCancelled, err)
	}
	return value, nil
}

func toReadCloser(r io.Reader) io.ReadCloser {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}

func toWriteCloser(w io.Writer) io.WriteCloser {
	if wc, ok := w.(io.WriteCloser); ok {
		return wc
	}
	return nopWriteCloser{Writer: w}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

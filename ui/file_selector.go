package ui

import (
	"io/fs"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/LachlanBWWright/rsrcdump/rsrc"
	"github.com/LachlanBWWright/rsrcdump/rsrc/rfork"
)

const (
	fileStateUnknown   = ""
	fileStateFork      = "fork"
	fileStateAppleFork = "adf"
	fileStateNotAFork  = "not-a-fork"
)

type FileSelector struct {
	cwd       string
	fileNames []string
	cursor    int
	fileState string
}

func CreateFileSelector() FileSelector {
	cwd, err := os.Getwd()
	if err != nil {
		err := errors.Wrap(err, "CreateFileSelector get current working directory error")
		panic(err)
	}
	return FileSelector{
		cwd:       cwd,
		fileNames: readDirectory(cwd),
	}
}

func readDirectory(path string) []string {
	files, err := os.ReadDir(path)
	if err != nil {
		return nil
	}
	files = lo.Filter(
		files,
		func(entry fs.DirEntry, _ int) bool {
			return !entry.IsDir()
		},
	)
	return lo.Map(
		files,
		func(entry fs.DirEntry, _ int) string {
			return entry.Name()
		},
	)
}

func (s FileSelector) probe(name string) string {
	bs, err := os.ReadFile(filepath.Join(s.cwd, name))
	if err != nil {
		return fileStateNotAFork
	}
	if rsrc.IsAppleDouble(bs) {
		return fileStateAppleFork
	}
	if _, err := rfork.Decode(bs); err == nil && len(bs) > 0 {
		return fileStateFork
	}
	return fileStateNotAFork
}

func (s FileSelector) View() string {
	output := "RSRCDUMP\n\n"
	output += "Current directory: " + s.cwd + "\n\n"

	for i, name := range s.fileNames {
		marker := "  "
		if i == s.cursor {
			marker = "> "
		}
		output += marker + name + "\n"
	}

	switch s.fileState {
	case fileStateFork:
		output += "\nLooks like a bare resource fork\n"
	case fileStateAppleFork:
		output += "\nLooks like an AppleDouble file with a resource fork\n"
	case fileStateNotAFork:
		output += "\nDoes not look like a resource fork\n"
	}

	output += "\nj/k move, enter probe, q quit\n"
	return output
}

func (s FileSelector) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch keyMsg.String() {
	case "q", "ctrl+c":
		return s, tea.Quit
	case "j", "down":
		if s.cursor < len(s.fileNames)-1 {
			s.cursor++
			s.fileState = fileStateUnknown
		}
	case "k", "up":
		if s.cursor > 0 {
			s.cursor--
			s.fileState = fileStateUnknown
		}
	case "enter":
		if s.cursor < len(s.fileNames) {
			s.fileState = s.probe(s.fileNames[s.cursor])
		}
	}
	return s, nil
}

func (s FileSelector) Init() tea.Cmd {
	return nil
}

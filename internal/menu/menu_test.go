package menu

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
)

func packageCommand() CommandDescriptor {
	return mavenCommand("Maven: Package", []string{"package"}, nil)
}

func TestBuild_CommandsTextExact(t *testing.T) {
	docs, err := Build([]CommandDescriptor{packageCommand()})
	require.NoError(t, err)

	want := `[
    {
        "caption": "Maven: Package",
        "command": "maven",
        "args": {
            "paths": [],
            "goals": [
                "package"
            ]
        }
    },
    {
        "caption": "Maven: Run ...",
        "command": "maven",
        "args": {
            "paths": [],
            "goals": []
        }
    }
]`
	assert.Equal(t, want, string(docs.CommandsText))
}

func TestBuild_MenuTextExact(t *testing.T) {
	docs, err := Build([]CommandDescriptor{packageCommand()})
	require.NoError(t, err)

	want := `// AUTO GENERATED FILE BY MAVEN PACKAGE!
[
    {
        "caption": "Project Specific",
        "id": "project-specific",
        "children": [
            {
                "caption": "-",
                "id": "maven_commands"
            },
            {
                "caption": "Maven",
                "children": [
                    {
                        "caption": "Package",
                        "command": "maven",
                        "args": {
                            "paths": [],
                            "goals": [
                                "package"
                            ]
                        }
                    },
                    {
                        "caption": "Run ...",
                        "command": "maven",
                        "args": {
                            "paths": [],
                            "goals": []
                        }
                    },
                    {
                        "caption": "-"
                    },
                    {
                        "caption": "Generate Project from all POMs in Path",
                        "command": "import_maven_projects",
                        "args": {
                            "paths": []
                        }
                    }
                ]
            }
        ]
    }
]
// AUTO GENERATED FILE BY MAVEN PACKAGE!
`
	assert.Equal(t, want, string(docs.MenuText))
}

func TestBuild_Defaults(t *testing.T) {
	docs, err := Build(nil)
	require.NoError(t, err)

	require.Len(t, docs.Commands, 5)
	captions := make([]string, 0, len(docs.Commands))
	for _, c := range docs.Commands {
		captions = append(captions, c.Caption)
	}
	assert.Equal(t, []string{
		"Maven: Run install",
		"Maven: Run clean install",
		"Maven: Test",
		"Maven: Exec:java",
		"Maven: Run ...",
	}, captions)

	assert.Contains(t, string(docs.CommandsText), `"-Dtest=$CLASS"`)
}

func TestBuild_CatchAllNotDuplicated(t *testing.T) {
	custom := mavenCommand("Maven: Anything", []string{}, nil)
	docs, err := Build([]CommandDescriptor{packageCommand(), custom})
	require.NoError(t, err)

	require.Len(t, docs.Commands, 2)
	assert.Equal(t, "Maven: Anything", docs.Commands[1].Caption)
	assert.NotContains(t, string(docs.CommandsText), CatchAllCaption)
}

func TestBuild_EmptyListGetsCatchAll(t *testing.T) {
	docs, err := Build([]CommandDescriptor{})
	require.NoError(t, err)

	require.Len(t, docs.Commands, 1)
	assert.True(t, docs.Commands[0].IsCatchAll())

	maven := docs.Menu[0].Children[1]
	require.Len(t, maven.Children, 3)
	assert.Equal(t, "Run ...", maven.Children[0].Caption)
	assert.Equal(t, SeparatorCaption, maven.Children[1].Caption)
	assert.Equal(t, ImportCommand, maven.Children[2].Command)
}

func TestBuild_StripsPrefixOnce(t *testing.T) {
	tests := []struct {
		caption string
		want    string
	}{
		{"Maven: Build", "Build"},
		{"Maven: Maven: twice", "Maven: twice"},
		{"Deploy via Maven: now", "Deploy via now"},
		{"No prefix", "No prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			docs, err := Build([]CommandDescriptor{mavenCommand(tt.caption, []string{"x"}, nil)})
			require.NoError(t, err)

			maven := docs.Menu[0].Children[1]
			assert.Equal(t, tt.want, maven.Children[0].Caption)
			assert.Equal(t, tt.caption, docs.Commands[0].Caption)
		})
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	input := []CommandDescriptor{packageCommand()}
	_, err := Build(input)
	require.NoError(t, err)

	require.Len(t, input, 1)
	assert.Equal(t, "Maven: Package", input[0].Caption)
}

func TestBuild_RejectsMissingGoals(t *testing.T) {
	tests := []struct {
		name string
		cmd  CommandDescriptor
	}{
		{"no args", CommandDescriptor{Caption: "Maven: Broken", Command: MavenCommand}},
		{"no goals", CommandDescriptor{Caption: "Maven: Broken", Command: MavenCommand, Args: &CommandArgs{Paths: []string{}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build([]CommandDescriptor{tt.cmd})
			require.Error(t, err)
			assert.Equal(t, menuerrors.ErrCodeInvalidInput, menuerrors.GetCode(err))
		})
	}
}

func TestBuild_MenusShareText(t *testing.T) {
	docs, err := Build(nil)
	require.NoError(t, err)

	text := string(docs.MenuText)
	assert.True(t, strings.HasPrefix(text, AutoGeneratedComment+"\n["))
	assert.True(t, strings.HasSuffix(text, "]\n"+AutoGeneratedComment+"\n"))

	body := strings.TrimSuffix(strings.TrimPrefix(text, AutoGeneratedComment+"\n"), "\n"+AutoGeneratedComment+"\n")
	var tree []MenuItem
	require.NoError(t, json.Unmarshal([]byte(body), &tree))
	assert.Equal(t, docs.Menu[0].Caption, tree[0].Caption)
}

func TestCommandArgs_UnmarshalKeepsEmptyGoals(t *testing.T) {
	var withEmpty, without CommandDescriptor
	require.NoError(t, json.Unmarshal([]byte(`{"caption":"a","args":{"goals":[]}}`), &withEmpty))
	require.NoError(t, json.Unmarshal([]byte(`{"caption":"b","args":{"paths":["x"]}}`), &without))

	assert.True(t, withEmpty.IsCatchAll())
	assert.Nil(t, withEmpty.Args.Paths)
	assert.False(t, without.IsCatchAll())
	assert.Nil(t, without.Args.Goals)
}

func TestBuild_UserEntriesKeepTheirKeys(t *testing.T) {
	// Given: an entry with no paths, null props and keys the menu does not know
	input := `[{"caption": "Maven: Package", "mnemonic": "k", "command": "maven",
		"args": {"goals": ["package"], "props": null, "extra": true}}]`
	var commands []CommandDescriptor
	require.NoError(t, json.Unmarshal([]byte(input), &commands))

	// When
	docs, err := Build(commands)
	require.NoError(t, err)

	// Then: the palette entry is written back as given
	want := `[
    {
        "caption": "Maven: Package",
        "mnemonic": "k",
        "command": "maven",
        "args": {
            "goals": [
                "package"
            ],
            "props": null,
            "extra": true
        }
    },
    {
        "caption": "Maven: Run ...",`
	assert.True(t, strings.HasPrefix(string(docs.CommandsText), want), string(docs.CommandsText))

	// And: the menu leaf keeps the same keys with the prefix stripped
	leaf := "\"caption\": \"Package\",\n" + strings.Repeat(" ", 24) + "\"mnemonic\": \"k\","
	menuText := string(docs.MenuText)
	assert.Contains(t, menuText, leaf)
	assert.Contains(t, menuText, `"props": null`)
	assert.Contains(t, menuText, `"extra": true`)
}

func TestCommandDescriptor_ExtrasSurviveClone(t *testing.T) {
	var d CommandDescriptor
	require.NoError(t, json.Unmarshal([]byte(`{"args":{"goals":["test"],"x":1},"caption":"Maven: T","platform":"Linux"}`), &d))

	c := d.Clone()
	c.Extra["platform"] = json.RawMessage(`"Windows"`)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `{"args":{"goals":["test"],"x":1},"caption":"Maven: T","platform":"Linux"}`, string(out))
}

func TestSynthesize_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	refreshed := 0
	s := NewSynthesizer(dir, WithAfterWrite(func() { refreshed++ }))

	require.NoError(t, s.Synthesize(context.Background(), nil))

	docs, err := Build(nil)
	require.NoError(t, err)

	for _, name := range []string{ContextMenuFile, SideBarMenuFile} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Equal(t, docs.MenuText, data, name)
	}
	data, err := os.ReadFile(filepath.Join(dir, CommandsFile))
	require.NoError(t, err)
	assert.Equal(t, docs.CommandsText, data)
	assert.Equal(t, 1, refreshed)
}

func TestSynthesize_Idempotent(t *testing.T) {
	dir := t.TempDir()
	s := NewSynthesizer(dir, WithAtomicWrites(true))

	require.NoError(t, s.Synthesize(context.Background(), []CommandDescriptor{packageCommand()}))
	first, err := os.ReadFile(filepath.Join(dir, ContextMenuFile))
	require.NoError(t, err)

	require.NoError(t, s.Synthesize(context.Background(), []CommandDescriptor{packageCommand()}))
	second, err := os.ReadFile(filepath.Join(dir, ContextMenuFile))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSynthesize_MissingDirIsNoop(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "gone")
	called := false
	s := NewSynthesizer(dir,
		WithAfterWrite(func() { called = true }),
		WithWriteFunc(func(string, []byte, os.FileMode) error {
			t.Fatal("write should not be called")
			return nil
		}))

	require.NoError(t, s.Synthesize(context.Background(), nil))
	assert.False(t, called)
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestSynthesize_WriteOrder(t *testing.T) {
	var order []string
	s := NewSynthesizer(t.TempDir(), WithWriteFunc(func(path string, _ []byte, _ os.FileMode) error {
		order = append(order, filepath.Base(path))
		return nil
	}))

	require.NoError(t, s.Synthesize(context.Background(), nil))
	assert.Equal(t, []string{ContextMenuFile, SideBarMenuFile, CommandsFile}, order)
}

func TestSynthesize_WriteErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"disk full", syscall.ENOSPC, menuerrors.ErrCodeDiskFull},
		{"permission", os.ErrPermission, menuerrors.ErrCodeFilePermission},
		{"other", errors.New("boom"), menuerrors.ErrCodeFileWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			s := NewSynthesizer(t.TempDir(),
				WithAfterWrite(func() { called = true }),
				WithWriteFunc(func(path string, _ []byte, _ os.FileMode) error {
					return &os.PathError{Op: "write", Path: path, Err: tt.err}
				}))

			err := s.Synthesize(context.Background(), nil)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, menuerrors.GetCode(err))
			assert.False(t, called)
		})
	}
}

func TestSynthesize_InvalidInputWritesNothing(t *testing.T) {
	dir := t.TempDir()
	s := NewSynthesizer(dir)

	err := s.Synthesize(context.Background(), []CommandDescriptor{{Caption: "bad"}})
	require.Error(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSynthesize_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewSynthesizer(t.TempDir())
	err := s.Synthesize(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

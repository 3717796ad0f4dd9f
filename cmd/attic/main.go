// Package main provides the attic command, a thin shell over the virtual
// file store. It wires the configured long-term memory backend under
// /memories/ and exposes the filesystem tool set as subcommands, which is
// useful for inspecting and seeding an agent's persistent memory outside
// of an agent session.
package main

import (
	"context"
	"encoding/xml"
	"flag"
	"fmt"
	"os"

	"github.com/entrhq/attic/pkg/config"
	"github.com/entrhq/attic/pkg/memory"
	"github.com/entrhq/attic/pkg/tools"
	"github.com/entrhq/attic/pkg/tools/filesystem"
	"github.com/entrhq/attic/pkg/vfs"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "path to config file (default ~/.attic/config.yaml)")
	agentID := flag.String("agent", "", "agent namespace override")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Usage = usage
	flag.Parse()

	if *showVersion {
		fmt.Printf("attic %s\n", version)
		return
	}

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}

	if err := run(*configPath, *agentID, args); err != nil {
		fmt.Fprintf(os.Stderr, "attic: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: attic [flags] <command> [args]

Commands:
  ls [path]                         list files
  read <path>                       print a file with line numbers
  write <path> <content>            create a file
  edit <path> <old> <new>           replace a string in a file
  delete <path>                     delete a file
  glob <pattern> [path]             find files by glob pattern
  grep <pattern> [path]             search file contents
  startup                           print the startup memory, if any

Session files live in memory and vanish on exit; paths under /memories/
persist through the configured backend.

Flags:
`)
	flag.PrintDefaults()
}

func run(configPath, agentID string, args []string) error {
	if err := config.Initialize(configPath); err != nil {
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	section := config.GetMemory()
	if agentID != "" {
		section.SetAgentID(agentID)
	}

	backend, err := section.NewBackend()
	if err != nil {
		return fmt.Errorf("failed to build memory backend: %w", err)
	}

	store := memory.NewMountStore(vfs.NewMemStore(), backend)
	ctx := context.Background()

	command, rest := args[0], args[1:]
	if command == "startup" {
		return printStartup(ctx, store)
	}

	tool, argsXML, err := buildInvocation(store, command, rest)
	if err != nil {
		return err
	}

	result, _, err := tool.Execute(ctx, argsXML)
	if err != nil {
		return err
	}
	fmt.Println(result)
	return nil
}

func printStartup(ctx context.Context, store *memory.MountStore) error {
	startup, err := store.StartupMemory(ctx)
	if err != nil {
		return err
	}
	if startup == nil {
		fmt.Println("No startup memory stored.")
		return nil
	}
	fmt.Printf("# source: %s (%s)\n%s\n", startup.Source, startup.Path, startup.Content)
	return nil
}

// buildInvocation maps a subcommand and its positional arguments onto a
// tool and its XML argument payload.
func buildInvocation(store vfs.Store, command string, rest []string) (tools.Tool, []byte, error) {
	switch command {
	case "ls":
		path := "/"
		if len(rest) > 0 {
			path = rest[0]
		}
		return NewInvocation(filesystem.NewLsTool(store), struct {
			XMLName xml.Name `xml:"arguments"`
			Path    string   `xml:"path"`
		}{Path: path})

	case "read":
		if len(rest) != 1 {
			return nil, nil, fmt.Errorf("usage: attic read <path>")
		}
		return NewInvocation(filesystem.NewReadFileTool(store), struct {
			XMLName  xml.Name `xml:"arguments"`
			FilePath string   `xml:"file_path"`
		}{FilePath: rest[0]})

	case "write":
		if len(rest) != 2 {
			return nil, nil, fmt.Errorf("usage: attic write <path> <content>")
		}
		return NewInvocation(filesystem.NewWriteFileTool(store), struct {
			XMLName  xml.Name `xml:"arguments"`
			FilePath string   `xml:"file_path"`
			Content  string   `xml:"content"`
		}{FilePath: rest[0], Content: rest[1]})

	case "edit":
		if len(rest) != 3 {
			return nil, nil, fmt.Errorf("usage: attic edit <path> <old> <new>")
		}
		return NewInvocation(filesystem.NewEditFileTool(store), struct {
			XMLName   xml.Name `xml:"arguments"`
			FilePath  string   `xml:"file_path"`
			OldString string   `xml:"old_string"`
			NewString string   `xml:"new_string"`
		}{FilePath: rest[0], OldString: rest[1], NewString: rest[2]})

	case "delete":
		if len(rest) != 1 {
			return nil, nil, fmt.Errorf("usage: attic delete <path>")
		}
		return NewInvocation(filesystem.NewDeleteFileTool(store), struct {
			XMLName  xml.Name `xml:"arguments"`
			FilePath string   `xml:"file_path"`
		}{FilePath: rest[0]})

	case "glob":
		if len(rest) < 1 {
			return nil, nil, fmt.Errorf("usage: attic glob <pattern> [path]")
		}
		path := "/"
		if len(rest) > 1 {
			path = rest[1]
		}
		return NewInvocation(filesystem.NewGlobTool(store), struct {
			XMLName xml.Name `xml:"arguments"`
			Pattern string   `xml:"pattern"`
			Path    string   `xml:"path"`
		}{Pattern: rest[0], Path: path})

	case "grep":
		if len(rest) < 1 {
			return nil, nil, fmt.Errorf("usage: attic grep <pattern> [path]")
		}
		path := "/"
		if len(rest) > 1 {
			path = rest[1]
		}
		return NewInvocation(filesystem.NewGrepTool(store), struct {
			XMLName xml.Name `xml:"arguments"`
			Pattern string   `xml:"pattern"`
			Path    string   `xml:"path"`
		}{Pattern: rest[0], Path: path})
	}

	return nil, nil, fmt.Errorf("unknown command '%s'", command)
}

// NewInvocation marshals a tool's argument struct into the XML payload
// Execute expects.
func NewInvocation(tool tools.Tool, args interface{}) (tools.Tool, []byte, error) {
	payload, err := xml.Marshal(args)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode arguments for %s: %w", tool.Name(), err)
	}
	return tool, payload, nil
}

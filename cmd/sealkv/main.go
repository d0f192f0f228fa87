// Command sealkv is the interactive CLI front-end for the storage engine:
// it owns argument/password parsing, the stdin command loop, and stdout
// formatting — the parts spec.md §1 explicitly carves out as external
// collaborators to the engine itself.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	sealerrors "github.com/iamNilotpal/sealkv/pkg/errors"
	"github.com/iamNilotpal/sealkv/pkg/options"
	"github.com/iamNilotpal/sealkv/pkg/sealkv"
)

// maxFieldLen is the CLI-protocol limit on key and value text (§6): a
// command whose key or value exceeds this many bytes is rejected rather
// than accepted and truncated or passed through.
const maxFieldLen = 255

func main() {
	os.Exit(run())
}

func run() int {
	password := "password"
	if len(os.Args) > 1 {
		password = os.Args[1]
	}

	ctx := context.Background()
	db, err := sealkv.NewInstance(
		ctx, "sealkv", password,
		options.WithDataDir("."),
		options.WithSegmentDir("."),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	defer db.Close(ctx)

	go func() {
		if err, ok := <-db.Errors(); ok {
			fmt.Fprintln(os.Stderr, "fatal flush error:", err)
			os.Exit(1)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		switch tokens[0] {
		case "SET":
			if len(tokens) != 3 {
				fmt.Fprintln(os.Stderr, "error: SET requires exactly a key and a value")
				return 1
			}
			if err := handleSet(ctx, db, tokens[1], tokens[2]); err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				return 1
			}
			fmt.Println("SET done")

		case "GET":
			if len(tokens) != 2 {
				fmt.Fprintln(os.Stderr, "error: GET requires exactly a key")
				return 1
			}
			value, err := handleGet(ctx, db, tokens[1])
			if err != nil {
				if err == sealkv.ErrKeyNotFound {
					fmt.Println("Not found")
					continue
				}
				fmt.Fprintln(os.Stderr, "error:", err)
				return 1
			}
			fmt.Printf("GET -> %s\n", value)

		default:
			err := sealerrors.NewFieldFormatError("command", tokens[0], "SET or GET")
			fmt.Fprintln(os.Stderr, "error:", err)
			return 1
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func handleSet(ctx context.Context, db *sealkv.Instance, key, value string) error {
	if len(key) > maxFieldLen {
		return sealerrors.NewFieldRangeError("key", len(key), 0, maxFieldLen)
	}
	if len(value) > maxFieldLen {
		return sealerrors.NewFieldRangeError("value", len(value), 0, maxFieldLen)
	}
	return db.Set(ctx, key, value)
}

func handleGet(ctx context.Context, db *sealkv.Instance, key string) (string, error) {
	if len(key) > maxFieldLen {
		return "", sealerrors.NewFieldRangeError("key", len(key), 0, maxFieldLen)
	}
	return db.Get(ctx, key)
}

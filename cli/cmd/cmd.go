package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/endarthur/spinifex-sub001/lang"
)

// stdinSource is the special expression argument for reading from stdin.
const stdinSource = "-"

// readExpr resolves an expression argument. The literal "-" reads the
// expression from stdin so it can be piped in; anything else is the
// expression text itself.
func readExpr(arg string) (string, error) {
	if arg != stdinSource {
		return arg, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

// parseExpr parses an expression argument in the requested tokenizer mode.
func parseExpr(arg string, strict bool) (lang.Node, string, error) {
	src, err := readExpr(arg)
	if err != nil {
		return nil, "", err
	}

	var node lang.Node
	if strict {
		node, err = lang.ParseStrict(src)
	} else {
		node, err = lang.Parse(src)
	}

	return node, src, err
}

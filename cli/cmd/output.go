package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	"github.com/f-space/rmmz-plugins-sub000/pkg"
)

// Output formats accepted by --output.
const (
	OutputNative = "native"
	OutputJSON   = "json"
	OutputYAML   = "yaml"
)

const defaultIndent = 2

// writeFormatted writes v in the given output format. native is the text
// used for [OutputNative].
func writeFormatted(w io.Writer, format string, v any, native string) error {
	switch format {
	case OutputNative, "":
		_, err := fmt.Fprintln(w, native)

		return err

	case OutputJSON:
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

		_, err = fmt.Fprintln(w, string(b))

		return err

	case OutputYAML:
		b, err := yaml.MarshalWithOptions(v, yaml.Indent(defaultIndent))
		if err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

		_, err = w.Write(b)

		return err
	}

	return pkg.ErrInvalidFormat.Wrapf("%q", format)
}

// readExpr returns the expression text of arg, reading standard input
// when it is "-".
func readExpr(arg string) (string, error) {
	if arg != stdinSource {
		return arg, nil
	}

	srcs, err := openSources([]string{stdinSource})
	if err != nil {
		return "", ErrReadExpr.Wrap(err)
	}
	defer closeSources(srcs)

	b, err := io.ReadAll(srcs[0])
	if err != nil {
		return "", ErrReadExpr.Wrap(pkg.ErrReadInput.Wrap(err))
	}

	return string(trimNewline(b)), nil
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}

	return b
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/azadio/internal/config"
	"github.com/danmuck/azadio/internal/iodata"
	"github.com/danmuck/azadio/internal/literal"
	"github.com/danmuck/azadio/internal/protocol"
	"github.com/danmuck/azadio/internal/protocol/frame"
	"github.com/danmuck/azadio/internal/protocol/session"
	"github.com/danmuck/azadio/internal/protocol/tlv"
)

func runTemplate(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("template", stderr)
	output := fs.String("output", "", "output path (stdout when empty)")
	force := fs.Bool("force", false, "overwrite an existing file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		tmpl, err := config.Template()
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, tmpl)
		return err
	}
	if err := config.WriteTemplate(*output, *force); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote problem config template to %s\n", *output)
	return nil
}

func runValidate(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("validate", stderr)
	path := fs.String("config", "", "problem config path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("%w: validate needs -config", errUsage)
	}
	cfg, reg, err := loadProblem(*path)
	if err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(stdout, "config %s ok: %d parameters\n", cfg.Name, len(cfg.Parameters))
		return nil
	}
	values, err := parseValues(fs.Args())
	if err != nil {
		return err
	}
	if err := cfg.Signature().ValidateParameters(reg, values); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "parameters ok: %d values\n", len(values))
	return nil
}

func runInfer(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("infer", stderr)
	dim := fs.Int("dim", -1, "only try this dimension (-1 searches all)")
	constraints := fs.Bool("constraints", false, "also require range constraints")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: infer needs at least one value", errUsage)
	}
	var opts []iodata.GuessOption
	if *dim >= 0 {
		opts = append(opts, iodata.WithDimension(*dim))
	}
	if *constraints {
		opts = append(opts, iodata.WithConstraints())
	}
	values, err := parseValues(fs.Args())
	if err != nil {
		return err
	}
	reg := iodata.Default()
	for _, v := range values {
		typ, d, err := reg.GuessDataType(v, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "%s/%d\n", typ, d)
	}
	return nil
}

func runStrize(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("strize", stderr)
	typ := fs.String("type", "", "registry type name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *typ == "" || fs.NArg() != 1 {
		return fmt.Errorf("%w: strize needs -type and one value", errUsage)
	}
	v, err := literal.Parse(fs.Arg(0))
	if err != nil {
		return err
	}
	s, err := iodata.Default().Strize(v, *typ)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, s)
	return nil
}

func runCompare(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("compare", stderr)
	precision := fs.Float64("precision", iodata.DefaultFloatPrecision, "float tolerance")
	if err := fs.Parse(args); err != nil {
		return err
	}
	values, err := parseValues(fs.Args())
	if err != nil {
		return err
	}
	equal, err := iodata.CompareAnswers(*precision, values...)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, equal)
	return nil
}

func runJudge(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("judge", stderr)
	path := fs.String("config", "", "problem config path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" || fs.NArg() != 2 {
		return fmt.Errorf("%w: judge needs -config, expected and got", errUsage)
	}
	cfg, reg, err := loadProblem(*path)
	if err != nil {
		return err
	}
	values, err := parseValues(fs.Args())
	if err != nil {
		return err
	}
	verdict, err := cfg.Signature().Judge(reg, values[0], values[1], cfg.Precision)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, verdict)
	return nil
}

func runEncode(args []string, stdout, stderr io.Writer) error {
	fs := newFlagSet("encode", stderr)
	id := fs.String("id", "", "identifier for the top-level frame")
	items := fs.Bool("items", false, "print items as text instead of tlv records")
	framed := fs.Bool("frame", false, "wrap the value in a message frame")
	msgType := fs.String("type", "answer", "message type when framing: parameters|answer|verdict|error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: encode needs one value", errUsage)
	}
	v, err := literal.Parse(fs.Arg(0))
	if err != nil {
		return err
	}

	switch {
	case *items:
		for it, err := range protocol.Encode(v, *id) {
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, it)
		}
		return nil
	case *framed:
		t, err := parseMessageType(*msgType)
		if err != nil {
			return err
		}
		_, err = session.NewConn(nil, stdout).Send(t, v, *id)
		return err
	default:
		return tlv.NewWriter(stdout).WriteSeq(protocol.Encode(v, *id))
	}
}

func runDecode(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := newFlagSet("decode", stderr)
	framed := fs.Bool("frame", false, "read message frames instead of a bare tlv stream")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *framed {
		conn := session.NewConn(stdin, nil)
		msg, err := conn.Receive()
		if err != nil {
			return err
		}
		prefix := frame.MessageTypeName(msg.Header.MessageType)
		if msg.ID != "" {
			prefix += " " + msg.ID
		}
		fmt.Fprintf(stdout, "%s: %s\n", prefix, literal.Format(msg.Value))
		return nil
	}

	v, err := protocol.Decode(tlv.NewReader(stdin), true)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, literal.Format(v))
	return nil
}

func loadProblem(path string) (config.ProblemConfig, *iodata.Registry, error) {
	cfg, err := config.LoadProblemConfig(path)
	if err != nil {
		return config.ProblemConfig{}, nil, err
	}
	reg, err := cfg.Registry()
	if err != nil {
		return config.ProblemConfig{}, nil, err
	}
	return cfg, reg, nil
}

func parseValues(args []string) ([]any, error) {
	out := make([]any, 0, len(args))
	for i, a := range args {
		v, err := literal.Parse(a)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func parseMessageType(name string) (uint16, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, t := range []uint16{frame.MsgParameters, frame.MsgAnswer, frame.MsgVerdict, frame.MsgError} {
		if frame.MessageTypeName(t) == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown message type %q", errUsage, name)
}

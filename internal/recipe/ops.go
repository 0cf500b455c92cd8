package recipe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/suspenders-cli/suspenders/internal/builder"
	"github.com/suspenders-cli/suspenders/internal/platform"
)

func (b *Builder) apply(ctx context.Context, op Op, args builder.Args) error {
	switch op.Op {
	case OpTemplate:
		return b.renderTemplate(op, args)
	case OpCopy:
		return b.copyFile(op)
	case OpMkdir:
		return b.mkdir(op)
	case OpTouch:
		return b.touch(op)
	case OpRemove:
		return b.remove(op)
	case OpReplace:
		return b.replace(op)
	case OpInsert:
		return b.insert(op)
	case OpAppend:
		return b.appendLine(op)
	case OpChmod:
		return b.chmod(op)
	case OpCommand:
		return b.command(ctx, op)
	default:
		return fmt.Errorf("unsupported operation %q", op.Op)
	}
}

func (b *Builder) renderTemplate(op Op, args builder.Args) error {
	src, err := b.catalog.readTemplate(op.Src)
	if err != nil {
		return err
	}
	out, err := render(op.Src, string(src), args)
	if err != nil {
		return err
	}
	return b.write(op.Dest, []byte(out))
}

func (b *Builder) copyFile(op Op) error {
	src, err := b.catalog.readTemplate(op.Src)
	if err != nil {
		return err
	}
	return b.write(op.Dest, src)
}

// write creates or overwrites a project file. Existing permissions are kept.
func (b *Builder) write(rel string, data []byte) error {
	dest, err := b.path(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", rel, err)
	}
	return nil
}

func (b *Builder) mkdir(op Op) error {
	dir, err := b.path(op.Dest)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", op.Dest, err)
	}
	return nil
}

func (b *Builder) touch(op Op) error {
	dest, err := b.path(op.Dest)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dest); err == nil {
		return nil
	}
	return b.write(op.Dest, nil)
}

func (b *Builder) remove(op Op) error {
	dest, err := b.path(op.Dest)
	if err != nil {
		return err
	}
	if err := os.Remove(dest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", op.Dest, err)
	}
	return nil
}

func (b *Builder) read(rel string) (string, error) {
	p, err := b.path(rel)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", rel, err)
	}
	return string(data), nil
}

// replace rewrites every match of the pattern. When nothing matches the
// file must already hold the replacement, unless the replacement refers
// to capture groups and cannot be checked.
func (b *Builder) replace(op Op) error {
	content, err := b.read(op.File)
	if err != nil {
		return err
	}
	re, err := b.catalog.regexp(op.Pattern)
	if err != nil {
		return err
	}

	if !re.MatchString(content) {
		if strings.Contains(op.With, "$") || strings.Contains(content, op.With) {
			return nil
		}
		return fmt.Errorf("pattern %q not found in %s", op.Pattern, op.File)
	}
	return b.write(op.File, []byte(re.ReplaceAllString(content, op.With)))
}

// insert places text right after the first match of the anchor. A file
// that already contains the text is left alone.
func (b *Builder) insert(op Op) error {
	content, err := b.read(op.File)
	if err != nil {
		return err
	}
	if strings.Contains(content, op.Text) {
		return nil
	}
	re, err := b.catalog.regexp(op.After)
	if err != nil {
		return err
	}
	loc := re.FindStringIndex(content)
	if loc == nil {
		return fmt.Errorf("anchor %q not found in %s", op.After, op.File)
	}
	return b.write(op.File, []byte(content[:loc[1]]+op.Text+content[loc[1]:]))
}

// appendLine adds a line to the end of a file, creating it if needed. If the
// line is already present this is a no-op.
func (b *Builder) appendLine(op Op) error {
	p, err := b.path(op.File)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(p)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", op.File, err)
	}
	for _, l := range strings.Split(string(content), "\n") {
		if strings.TrimSpace(l) == op.Line {
			return nil
		}
	}

	suffix := op.Line + "\n"
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		suffix = "\n" + suffix
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", op.File, err)
	}
	f, err := os.OpenFile(p, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s for append: %w", op.File, err)
	}
	defer f.Close()

	if _, err := f.WriteString(suffix); err != nil {
		return fmt.Errorf("writing to %s: %w", op.File, err)
	}
	return nil
}

func (b *Builder) chmod(op Op) error {
	p, err := b.path(op.Dest)
	if err != nil {
		return err
	}
	if op.Mode == "+x" {
		return platform.MakeExecutable(p)
	}
	mode, err := strconv.ParseUint(op.Mode, 8, 32)
	if err != nil {
		return fmt.Errorf("parsing mode %q: %w", op.Mode, err)
	}
	return platform.Chmod(p, os.FileMode(mode))
}

// command runs argv in the project root. The unless path makes commands
// that are not naturally repeatable, like "git init", safe to re-run.
func (b *Builder) command(ctx context.Context, op Op) error {
	if op.Unless != "" {
		marker, err := b.path(op.Unless)
		if err != nil {
			return err
		}
		if _, err := os.Stat(marker); err == nil {
			b.log.Debug().Str("command", op.Target()).Str("unless", op.Unless).Msg("already applied, skipping")
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", op.Unless, err)
		}
	}

	line := strings.Join(op.Argv, " ")
	res, err := b.runner.Run(ctx, b.root, op.Argv[0], op.Argv[1:]...)
	if err != nil {
		return err
	}
	return res.Err(line)
}

package main

import (
	"fmt"
	"strconv"

	"github.com/ankit-chaubey/id3-surgery/core"
	"github.com/ankit-chaubey/id3-surgery/core/audio"
	"github.com/ankit-chaubey/id3-surgery/core/id3"
	"github.com/ankit-chaubey/id3-surgery/core/library"
	"github.com/ankit-chaubey/id3-surgery/core/tags"
)

func (a *app) tags(args []string) error {
	if _, err := parseFlags(newFlagSet(a, "tags"), args, 0, false); err != nil {
		return err
	}
	a.printer.PrintRegistry(tags.Default().All())
	return nil
}

func (a *app) view(args []string) error {
	rest, err := parseFlags(newFlagSet(a, "view"), args, 1, true)
	if err != nil {
		return err
	}
	path, ids := rest[0], rest[1:]

	if len(ids) == 0 {
		m, err := audio.New(a.editorOptions()).View(path)
		if err != nil {
			return err
		}
		a.printer.PrintMetadata(m)
		return nil
	}

	inspector := id3.NewInspector(nil)
	m := &core.Metadata{FilePath: path, Format: "MP3"}
	for _, id := range ids {
		fi, err := inspector.Frame(path, id)
		if err != nil {
			return err
		}
		m.Fields = append(m.Fields, core.MetaField{
			Key:      fi.ID,
			Value:    fi.Text,
			Category: fi.Description,
			Editable: fi.ID != id3.PictureFrameID,
			Raw:      fmt.Sprintf("offset %d, %d bytes", fi.Offset, fi.Size),
		})
	}
	a.printer.PrintMetadata(m)
	return nil
}

// payload returns data as given, or as an encoded text frame body.
func payload(data string, text bool) ([]byte, error) {
	if !text {
		return []byte(data), nil
	}
	return id3.EncodeText(data, id3.BestEncoding(data))
}

func (a *app) edit(args []string, add bool) error {
	name := "edit"
	if add {
		name = "add"
	}
	fs := newFlagSet(a, name)
	text := fs.Bool("text", false, "prefix DATA with a text encoding byte")
	rest, err := parseFlags(fs, args, 3, false)
	if err != nil {
		return err
	}

	data, err := payload(rest[2], *text)
	if err != nil {
		return err
	}

	var res *id3.Result
	if add {
		res, err = a.editor().AddFrame(rest[0], rest[1], data)
	} else {
		res, err = a.editor().EditFrame(rest[0], rest[1], data)
	}
	if err != nil {
		return err
	}

	a.printResult(rest[0], res)
	return nil
}

func (a *app) picture(args []string) error {
	fs := newFlagSet(a, "picture")
	desc := fs.String("desc", "", "picture description (default: image file name)")
	typ := fs.Int("type", -1, "picture type 0-20 (default: keep existing, or 0)")
	rest, err := parseFlags(fs, args, 2, false)
	if err != nil {
		return err
	}

	in := id3.PictureInput{ImagePath: rest[1], Description: *desc}
	if *typ >= 0 {
		if *typ > 0xFF {
			return fmt.Errorf("%w: picture type %d", errUsage, *typ)
		}
		pt := id3.PictureType(*typ)
		in.Type = &pt
	}

	res, err := a.editor().SetPicture(rest[0], in)
	if err != nil {
		return err
	}

	a.printResult(rest[0], res)
	return nil
}

func (a *app) extract(args []string) error {
	rest, err := parseFlags(newFlagSet(a, "extract"), args, 2, false)
	if err != nil {
		return err
	}

	out, err := id3.NewInspector(nil).ExtractPicture(rest[0], rest[1])
	if err != nil {
		return err
	}

	a.printer.PrintSuccess("picture written to " + out)
	return nil
}

func (a *app) remove(args []string) error {
	rest, err := parseFlags(newFlagSet(a, "remove"), args, 2, false)
	if err != nil {
		return err
	}

	res, err := a.editor().RemoveFrame(rest[0], rest[1])
	if err != nil {
		return err
	}

	a.printResult(rest[0], res)
	return nil
}

func (a *app) set(args []string) error {
	fs := newFlagSet(a, "set")
	out := fs.String("out", "", "write the result to this path instead of editing in place")
	dryRun := fs.Bool("dry-run", false, "print the changes without writing")
	var deletes stringList
	fs.Var(&deletes, "delete", "field to remove (repeatable)")
	rest, err := parseFlags(fs, args, 1, true)
	if err != nil {
		return err
	}

	opts := core.EditOptions{Set: map[string]string{}, Delete: deletes, DryRun: *dryRun}
	for _, kv := range rest[1:] {
		k, v, ok := core.ParseKV(kv)
		if !ok {
			return fmt.Errorf("%w: expected KEY=VALUE, got %q", errUsage, kv)
		}
		opts.Set[k] = v
	}
	if len(opts.Set) == 0 && len(opts.Delete) == 0 {
		return fmt.Errorf("%w: nothing to set or delete", errUsage)
	}

	h := audio.New(a.editorOptions())
	h.Out = a.printer.Writer
	if err := h.Edit(rest[0], *out, opts); err != nil {
		return err
	}

	if !*dryRun {
		a.printer.PrintSuccess("updated " + core.ResolveOutPath(rest[0], *out))
	}
	return nil
}

func (a *app) batch(args []string) error {
	fs := newFlagSet(a, "batch")
	text := fs.Bool("text", false, "prefix DATA with a text encoding byte")
	var include, exclude stringList
	fs.Var(&include, "include", "pattern of files to edit (repeatable, default *.mp3)")
	fs.Var(&exclude, "exclude", "pattern of files to skip (repeatable)")
	rest, err := parseFlags(fs, args, 3, false)
	if err != nil {
		return err
	}

	files, err := library.Scan(rest[0], library.Options{Include: include, Exclude: exclude})
	if err != nil {
		return err
	}

	data, err := payload(rest[2], *text)
	if err != nil {
		return err
	}

	outcomes := library.EditAll(a.editor(), files, rest[1], data)
	for _, o := range outcomes {
		if o.Err != nil {
			core.PrintError(o.Path + ": " + o.Err.Error())
			continue
		}
		a.printResult(o.Path, o.Result)
	}

	if n := library.Failed(outcomes); n > 0 {
		return fmt.Errorf("%d of %d files failed", n, len(outcomes))
	}
	a.printer.PrintInfo(strconv.Itoa(len(outcomes)) + " files updated")
	return nil
}

func (a *app) printResult(path string, res *id3.Result) {
	if a.printer.JSON {
		a.printer.PrintJSON(struct {
			File      string `json:"file"`
			Action    string `json:"action"`
			Frame     string `json:"frame"`
			FrameSize uint32 `json:"frame_size"`
			TagSize   uint32 `json:"tag_size"`
		}{path, res.Action.String(), res.FrameID, res.FrameSize, res.TagSize})
		return
	}
	a.printer.PrintSuccess(fmt.Sprintf("%s: %s %s (%d bytes, tag %d bytes)", path, res.FrameID, res.Action, res.FrameSize, res.TagSize))
}

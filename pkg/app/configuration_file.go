package app

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// decode reads YAML from r into this. Unknown fields are rejected; an empty
// document leaves every value untouched.
func (this *Configuration) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(this); errors.Is(err, io.EOF) {
		return nil
	} else if err != nil {
		return err
	}
	return nil
}

func (this *Configuration) encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(this); err != nil {
		return err
	}
	return enc.Close()
}

// load reads fn into this and reports whether fn existed. A missing file is
// no error.
func (this *Configuration) load(fn string) (bool, error) {
	f, err := os.Open(fn)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cannot open configuration file %q: %w", fn, err)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := this.decode(f); err != nil {
		return true, fmt.Errorf("cannot load configuration file %q: %w", fn, err)
	}
	return true, nil
}

// store writes this to fn. The content is written to a temporary file next
// to fn first which replaces fn afterwards, so readers never see a partially
// written configuration.
func (this *Configuration) store(fn string) (rErr error) {
	dir := filepath.Dir(fn)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("cannot create directory of configuration file %q: %w", fn, err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(fn)+".*")
	if err != nil {
		return fmt.Errorf("cannot create configuration file %q: %w", fn, err)
	}
	defer func() {
		if rErr != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err := this.encode(f); err != nil {
		return fmt.Errorf("cannot write configuration file %q: %w", fn, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("cannot write configuration file %q: %w", fn, err)
	}
	if err := os.Rename(f.Name(), fn); err != nil {
		return fmt.Errorf("cannot replace configuration file %q: %w", fn, err)
	}
	return nil
}

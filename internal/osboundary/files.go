package osboundary

import (
	"context"
	"os"

	"aura/internal/errs"
)

// files.* operations are pure Go and platform-agnostic; they still live
// behind the Boundary so that "every OS side effect originates inside the
// OS Boundary" holds without an exception for the filesystem. Tool handlers
// in internal/tools call these instead of os.* directly.

func (b *Boundary) FileCreate(_ context.Context, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errs.Wrap(errs.Internal, "files.create failed", err)
	}
	return nil
}

func (b *Boundary) FileRead(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.BadArgs, "files.read: no such file", err)
		}
		return nil, errs.Wrap(errs.Internal, "files.read failed", err)
	}
	return data, nil
}

func (b *Boundary) FileWrite(_ context.Context, path string, data []byte) error {
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errs.Wrap(errs.Internal, "files.write failed", err)
	}
	return nil
}

func (b *Boundary) CreateDir(_ context.Context, path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return errs.Wrap(errs.Internal, "files.create_dir failed", err)
	}
	return nil
}

func (b *Boundary) FileMove(_ context.Context, src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return errs.Wrap(errs.Internal, "files.move failed", err)
	}
	return nil
}

func (b *Boundary) FileDelete(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return errs.Wrap(errs.BadArgs, "files.delete: no such file", err)
		}
		return errs.Wrap(errs.Internal, "files.delete failed", err)
	}
	return nil
}

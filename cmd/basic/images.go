package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/chazu/basic/bytecode"
	"github.com/chazu/basic/imagestore"
)

// openStore opens the image store configured by the manifest.
func (a *app) openStore() (*imagestore.Store, error) {
	return imagestore.Open(a.manifest.StorePath())
}

// loadImage resolves ref as an image file first, then as a stored name.
// An empty ref means the manifest's entry.
func (a *app) loadImage(ref string) (*bytecode.Image, error) {
	if ref == "" {
		ref = a.manifest.EntryPath()
		if ref == "" {
			return nil, errors.New("no image given and no [project] entry configured")
		}
	}

	if _, err := os.Stat(ref); err == nil {
		log.Debugf("loading image file %s", ref)
		return bytecode.LoadImage(ref)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	store, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	log.Debugf("loading image %s from %s", ref, store.Path())
	img, err := store.Get(ref)
	if errors.Is(err, imagestore.ErrImageNotFound) {
		return nil, fmt.Errorf("%s is neither an image file nor a stored image", ref)
	}
	return img, err
}

package bytecode

import (
	"fmt"
	"io"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// ImageMagic identifies a serialized program.
const ImageMagic = "BASIMG"

// ImageVersion is the current image format version.
const ImageVersion = 1

// Image is a program plus the metadata needed to run it later.
type Image struct {
	Magic   string   `cbor:"1,keyasint"`
	Version int      `cbor:"2,keyasint"`
	Name    string   `cbor:"3,keyasint,omitempty"`
	Source  string   `cbor:"4,keyasint,omitempty"` // source file name, informational
	Program *Program `cbor:"5,keyasint"`
}

// NewImage wraps a program.
func NewImage(name string, prog *Program) *Image {
	return &Image{Magic: ImageMagic, Version: ImageVersion, Name: name, Program: prog}
}

var imageEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	imageEncMode = em
}

// EncodeImage serializes an image to CBOR bytes.
func EncodeImage(img *Image) ([]byte, error) {
	if img.Program == nil {
		return nil, fmt.Errorf("bytecode: encode image %q: no program", img.Name)
	}
	return imageEncMode.Marshal(img)
}

// DecodeImage deserializes and validates an image.
func DecodeImage(data []byte) (*Image, error) {
	var img Image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal image: %w", err)
	}
	if img.Magic != ImageMagic {
		return nil, fmt.Errorf("bytecode: not a program image (magic %q)", img.Magic)
	}
	if img.Version != ImageVersion {
		return nil, fmt.Errorf("bytecode: unsupported image version %d", img.Version)
	}
	if img.Program == nil {
		return nil, fmt.Errorf("bytecode: image %q has no program", img.Name)
	}
	if err := img.Program.Validate(); err != nil {
		return nil, fmt.Errorf("bytecode: invalid image %q: %w", img.Name, err)
	}
	return &img, nil
}

// WriteImage encodes an image to w.
func WriteImage(w io.Writer, img *Image) error {
	data, err := EncodeImage(img)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ReadImage decodes an image from r.
func ReadImage(r io.Reader) (*Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("bytecode: read image: %w", err)
	}
	return DecodeImage(data)
}

// SaveImage writes an image to a file.
func SaveImage(path string, img *Image) error {
	data, err := EncodeImage(img)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

// LoadImage reads an image from a file.
func LoadImage(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return DecodeImage(data)
}

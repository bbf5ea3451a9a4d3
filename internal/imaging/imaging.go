package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Variant is one generated rendition size
type Variant struct {
	Name   string
	Width  int
	Height int
}

var Variants = []Variant{
	{Name: "150x200", Width: 150, Height: 200},
	{Name: "300x400", Width: 300, Height: 400},
	{Name: "600x800", Width: 600, Height: 800},
}

const jpegQuality = 85

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SafeName reduces s to a single path segment of safe characters
func SafeName(s string) string {
	s = filepath.Base(strings.TrimSpace(s))
	s = unsafeChars.ReplaceAllString(s, "_")
	s = strings.Trim(s, "._")
	if s == "" {
		return "file"
	}
	return s
}

// UploadName is the stored name of an uploaded file: <unix millis>-<name>,
// whitespace replaced by underscores
func UploadName(original string, now time.Time) string {
	name := strings.Join(strings.Fields(filepath.Base(original)), "_")
	return fmt.Sprintf("%d-%s", now.UnixMilli(), SafeName(name))
}

// Rendition lists the files written for one source image, as URLs below the
// upload prefix
type Rendition struct {
	Original string            `json:"original"`
	Variants map[string]string `json:"variants"`
}

// Processor writes images below an upload root that is served at URLPrefix
type Processor struct {
	Root      string
	URLPrefix string
}

func NewProcessor(root string) *Processor {
	return &Processor{Root: root, URLPrefix: "/uploads"}
}

// SaveUpload stores r unchanged under the upload root and returns its URL
func (p *Processor) SaveUpload(original string, r io.Reader, now time.Time) (string, error) {
	if err := os.MkdirAll(p.Root, 0o755); err != nil {
		return "", errors.Wrap(err, "create upload dir")
	}
	name := UploadName(original, now)
	f, err := os.Create(filepath.Join(p.Root, name))
	if err != nil {
		return "", errors.Wrap(err, "create upload")
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", errors.Wrap(err, "write upload")
	}
	return path.Join(p.URLPrefix, name), nil
}

// Process decodes r and writes a JPEG original plus every cover cropped
// variant to <root>/sarees/<productID>/<baseName>-<variant>.jpg
func (p *Processor) Process(productID, baseName string, r io.Reader) (*Rendition, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	productID = SafeName(productID)
	baseName = SafeName(baseName)
	rel := path.Join("sarees", productID)
	dir := filepath.Join(p.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "create image dir")
	}

	out := &Rendition{Variants: make(map[string]string, len(Variants))}
	name := baseName + "-original.jpg"
	if err := writeJPEG(filepath.Join(dir, name), src); err != nil {
		return nil, err
	}
	out.Original = path.Join(p.URLPrefix, rel, name)

	for _, v := range Variants {
		name := fmt.Sprintf("%s-%s.jpg", baseName, v.Name)
		if err := writeJPEG(filepath.Join(dir, name), CoverCrop(src, v.Width, v.Height)); err != nil {
			return nil, err
		}
		out.Variants[v.Name] = path.Join(p.URLPrefix, rel, name)
	}
	return out, nil
}

// CoverCrop scales src to fill w x h, cropping the centre of the overflowing side
func CoverCrop(src image.Image, w, h int) image.Image {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	crop := b
	// compare aspect ratios without floats: sw/sh against w/h
	if sw*h > sh*w {
		cw := sh * w / h
		x0 := b.Min.X + (sw-cw)/2
		crop = image.Rect(x0, b.Min.Y, x0+cw, b.Max.Y)
	} else if sw*h < sh*w {
		ch := sw * h / w
		y0 := b.Min.Y + (sh-ch)/2
		crop = image.Rect(b.Min.X, y0, b.Max.X, y0+ch)
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Over, nil)
	return dst
}

func writeJPEG(file string, img image.Image) error {
	f, err := os.Create(file)
	if err != nil {
		return errors.Wrap(err, "create "+filepath.Base(file))
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return errors.Wrap(err, "encode "+filepath.Base(file))
	}
	return nil
}

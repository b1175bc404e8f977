package host

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// ImagesDir is the output directory, relative to the output root, that
// builders copy referenced images into.
const ImagesDir = "_images"

// ImageFile is one image referenced from the documents.
type ImageFile struct {
	// URI is the slash-separated path of Source relative to the source
	// directory. It identifies the image across documents.
	URI string
	// Source is the absolute path the image is read from.
	Source string
	// OutName is the unique file name inside the output images directory.
	OutName string

	docs map[string]struct{}
}

// DocNames returns the sorted documents referencing this image.
func (f *ImageFile) DocNames() []string {
	names := make([]string, 0, len(f.docs))
	for d := range f.docs {
		names = append(names, d)
	}
	sort.Strings(names)
	return names
}

// ImageRegistry maps image references to source files and unique output names.
type ImageRegistry struct {
	srcDir   string
	files    map[string]*ImageFile
	outNames map[string]struct{}
}

// NewImageRegistry creates an empty registry for images below srcDir.
func NewImageRegistry(srcDir string) *ImageRegistry {
	return &ImageRegistry{
		srcDir:   srcDir,
		files:    make(map[string]*ImageFile),
		outNames: make(map[string]struct{}),
	}
}

// AddFile registers uri as referenced by docname and returns the path the
// image is registered under, relative to the source directory. Nodes store
// that path so builders can find the output name. References from different
// documents that resolve to the same file share one entry.
func (r *ImageRegistry) AddFile(docname, uri string) string {
	source := r.resolve(docname, uri)
	key := r.key(source)
	if f, ok := r.files[key]; ok {
		f.docs[docname] = struct{}{}
		return key
	}
	f := &ImageFile{
		URI:     key,
		Source:  source,
		OutName: r.uniqueName(key),
		docs:    map[string]struct{}{docname: {}},
	}
	r.files[key] = f
	r.outNames[f.OutName] = struct{}{}
	return key
}

// Lookup returns the image registered under the source-relative path uri.
func (r *ImageRegistry) Lookup(uri string) (*ImageFile, bool) {
	f, ok := r.files[uri]
	return f, ok
}

// Files returns all registered images ordered by URI.
func (r *ImageRegistry) Files() []*ImageFile {
	out := make([]*ImageFile, 0, len(r.files))
	for _, f := range r.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URI < out[j].URI })
	return out
}

// Len returns the number of registered images.
func (r *ImageRegistry) Len() int {
	return len(r.files)
}

// resolve finds the source file for uri. Absolute references are rooted at the
// source directory; relative ones prefer the document's directory.
func (r *ImageRegistry) resolve(docname, uri string) string {
	p := strings.TrimPrefix(strings.TrimSpace(uri), "file://")
	if strings.HasPrefix(p, "/") {
		return filepath.Join(r.srcDir, filepath.FromSlash(p))
	}
	if docname != "" {
		candidate := filepath.Join(DocDir(r.srcDir, docname), filepath.FromSlash(p))
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return filepath.Join(r.srcDir, filepath.FromSlash(p))
}

func (r *ImageRegistry) key(source string) string {
	rel, err := filepath.Rel(r.srcDir, source)
	if err != nil {
		return filepath.ToSlash(source)
	}
	return filepath.ToSlash(rel)
}

func (r *ImageRegistry) uniqueName(key string) string {
	name := path.Base(key)
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	candidate := name
	for i := 1; ; i++ {
		if _, taken := r.outNames[candidate]; !taken {
			return candidate
		}
		candidate = base + strconv.Itoa(i) + ext
	}
}

package anno

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/psantana5/cpxanno/internal/logging"
	"github.com/psantana5/cpxanno/internal/version"
	"github.com/psantana5/cpxanno/pkg/models"
)

// Extension is the default file extension for annotation files
const Extension = ".ann"

const (
	xmlDeclaration      = "<?xml version='1.0' encoding='utf-8'?>\n"
	signatureFormat     = "<!-- This file has been generated by %s version %s  -->\n"
	standaloneHeader    = "<?xml version = \"1.0\" standalone=\"yes\"?>\n"
	annotationsStartTag = "<CPLEXAnnotations>\n"
	annotationsEndTag   = " </CPLEXAnnotations>\n"
	bendersStartTag     = " <CPLEXAnnotation name='cpxBendersPartition' type='long' default='0'>\n"
	bendersEndTag       = " </CPLEXAnnotation>\n"
	objectStartFormat   = "  <object type='%d'>\n"
	objectEndTag        = "  </object>\n"
	annoFormat          = "   <anno name='%s' index='%d' value='%d'/>\n"
)

// objectTypes maps scopes to CPLEX annotation object types.
// Scopes missing here are not written.
var objectTypes = map[models.Scope]int{
	models.ScopeVariable:            1,
	models.ScopeLinearConstraint:    2,
	models.ScopeSOS:                 3,
	models.ScopeIndicatorConstraint: 4,
	models.ScopeQuadraticConstraint: 5,
}

// ObjectType returns the CPLEX annotation object type of scope
func ObjectType(scope models.Scope) (int, bool) {
	code, ok := objectTypes[scope]
	return code, ok
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

// Stats describes what a single Write produced
type Stats struct {
	Objects       int `json:"objects"`
	Annotations   int `json:"annotations"`
	Detached      int `json:"detached"`
	IgnoredScopes int `json:"ignored_scopes"`
}

// Printer writes Benders partition annotations in the CPLEX .ann format.
// A Printer holds no per-call state and may be shared.
type Printer struct {
	Generator string
	Version   string
	log       *logging.Logger
}

// Option configures a Printer
type Option func(*Printer)

// WithGenerator overrides the tool name written in the header comment
func WithGenerator(name string) Option {
	return func(p *Printer) {
		if name != "" {
			p.Generator = name
		}
	}
}

// WithVersion overrides the version written in the header comment
func WithVersion(v string) Option {
	return func(p *Printer) {
		if v != "" {
			p.Version = v
		}
	}
}

// WithLogger attaches a logger for skipped scopes and targets
func WithLogger(l *logging.Logger) Option {
	return func(p *Printer) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPrinter creates a printer stamped with the build version
func NewPrinter(opts ...Option) *Printer {
	p := &Printer{
		Generator: version.Generator,
		Version:   version.Version,
		log:       logging.Discard(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ResolveName returns name, or the scope prefix followed by index when name is empty
func ResolveName(scope models.Scope, name string, index int) string {
	if name != "" {
		return name
	}
	return scope.Prefix() + strconv.Itoa(index)
}

// WriteHeader writes the XML declarations and the generator comment
func (p *Printer) WriteHeader(w io.Writer) error {
	bw := bufio.NewWriter(w)
	p.writeHeader(bw)
	return bw.Flush()
}

func (p *Printer) writeHeader(bw *bufio.Writer) {
	bw.WriteString(xmlDeclaration)
	fmt.Fprintf(bw, signatureFormat, p.Generator, p.Version)
	bw.WriteString(standaloneHeader)
}

// Write writes the complete annotation document for model to w
func (p *Printer) Write(w io.Writer, model models.Annotated) error {
	_, err := p.WriteStats(w, model)
	return err
}

// WriteStats is Write, also reporting what was emitted.
// bufio.Writer keeps the first write error, so only Flush is checked.
func (p *Printer) WriteStats(w io.Writer, model models.Annotated) (Stats, error) {
	var stats Stats
	bw := bufio.NewWriter(w)

	p.writeHeader(bw)
	bw.WriteString(annotationsStartTag)
	bw.WriteString(bendersStartTag)

	for _, row := range model.AnnotationsByScope() {
		code, ok := ObjectType(row.Scope)
		if !ok {
			if len(row.Annotations) > 0 {
				stats.IgnoredScopes++
				p.log.Debug("scope has no annotation object type, skipped", map[string]interface{}{
					"scope":   row.Scope.String(),
					"entries": len(row.Annotations),
				})
			}
			continue
		}
		if len(row.Annotations) == 0 {
			continue
		}

		stats.Objects++
		fmt.Fprintf(bw, objectStartFormat, code)
		for _, a := range row.Annotations {
			index := a.Object.Index()
			if index < 0 {
				stats.Detached++
				continue
			}
			name := ResolveName(row.Scope, a.Object.Name(), index)
			fmt.Fprintf(bw, annoFormat, attrEscaper.Replace(name), index, a.Value)
			stats.Annotations++
		}
		bw.WriteString(objectEndTag)
	}

	bw.WriteString(bendersEndTag)
	bw.WriteString(annotationsEndTag)
	bw.WriteString("\n")

	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("write annotations: %w", err)
	}
	if stats.Detached > 0 {
		p.log.Debug("skipped annotations on objects not attached to the model", map[string]interface{}{
			"detached": stats.Detached,
		})
	}
	return stats, nil
}

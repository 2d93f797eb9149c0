package sheetxml

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	sax "github.com/midbel/codecs/xml"
)

var ErrFile = errors.New("invalid file")

// Formula is one formula cell pulled out of a workbook: the sheet it lives
// on, its cell address and the formula text with its leading equal sign.
type Formula struct {
	Sheet string
	Cell  string
	Text  string
}

// Reader extracts formula cells from a spreadsheet container file. Only the
// parts needed to locate formulas are read: the workbook sheet list, its
// relations and the worksheet parts themselves.
type Reader struct {
	reader *zip.ReadCloser
	base   string

	err error
}

func Open(name string) (*Reader, error) {
	z, err := zip.OpenReader(name)
	if err != nil {
		return nil, err
	}
	r := Reader{
		reader: z,
		base:   wbBaseDir,
	}
	return &r, nil
}

func (r *Reader) Close() error {
	if r.reader == nil {
		return ErrFile
	}
	return r.reader.Close()
}

// ReadFormulas walks every worksheet of the workbook and collects its
// formula cells in sheet order.
func (r *Reader) ReadFormulas() ([]Formula, error) {
	var (
		sheets    = r.readWorkbook()
		relations = r.readRelations()
		list      []Formula
	)
	for _, s := range sheets {
		ix := slices.IndexFunc(relations, func(rel xmlRelation) bool {
			return rel.Id == s.Id
		})
		if ix < 0 {
			r.err = fmt.Errorf("%w: sheet %s has no part", ErrFile, s.Name)
			break
		}
		list = append(list, r.readSheet(s.Name, relations[ix].Target)...)
		if r.invalid() {
			break
		}
	}
	return list, r.err
}

func (r *Reader) readWorkbook() []xmlSheet {
	addr := r.readWorkbookLocation()
	if r.invalid() {
		return nil
	}
	var root xmlWorkbook
	if err := r.decodeXML(addr, &root); err != nil {
		return nil
	}
	return root.Sheets
}

func (r *Reader) readWorkbookLocation() string {
	if r.invalid() {
		return ""
	}
	var root xmlRelations
	if err := r.decodeXML("_rels/.rels", &root); err != nil {
		return ""
	}
	ix := slices.IndexFunc(root.Relations, func(rel xmlRelation) bool {
		return strings.HasSuffix(rel.Type, "relationships/officeDocument")
	})
	if ix < 0 {
		r.err = ErrFile
		return ""
	}
	return root.Relations[ix].Target
}

func (r *Reader) readRelations() []xmlRelation {
	if r.invalid() {
		return nil
	}
	var root xmlRelations
	if err := r.decodeXML(r.fromBase("_rels/workbook.xml.rels"), &root); err != nil {
		return nil
	}
	return root.Relations
}

func (r *Reader) readSheet(name, addr string) []Formula {
	if r.invalid() {
		return nil
	}
	z, err := r.openFile(r.fromBase(addr))
	if err != nil {
		r.err = err
		return nil
	}
	rs := collectSheet(z, name)
	if err := rs.Collect(); err != nil {
		r.err = err
		return nil
	}
	return rs.list
}

func (r *Reader) decodeXML(name string, ptr any) error {
	if r.invalid() {
		return r.err
	}
	rs, err := r.openFile(name)
	if err != nil {
		r.err = err
		return r.err
	}
	if err := xml.NewDecoder(rs).Decode(ptr); err != nil {
		r.err = fmt.Errorf("%w: fail to read data from %s", ErrFile, name)
	}
	return r.err
}

func (r *Reader) openFile(name string) (io.Reader, error) {
	ix := slices.IndexFunc(r.reader.File, func(f *zip.File) bool {
		return f.Name == name
	})
	if ix < 0 {
		return nil, fmt.Errorf("%w: %s not found", ErrFile, name)
	}
	return r.reader.File[ix].Open()
}

func (r *Reader) fromBase(name string) string {
	parts := append([]string{r.base}, name)
	return strings.Join(parts, "/")
}

func (r *Reader) invalid() bool {
	return r.err != nil
}

type sheetReader struct {
	reader *sax.Reader
	sheet  string
	list   []Formula
}

func collectSheet(r io.Reader, sheet string) *sheetReader {
	rs := sheetReader{
		reader: sax.NewReader(r),
		sheet:  sheet,
	}
	return &rs
}

func (r *sheetReader) Collect() error {
	r.reader.Element(sax.LocalName("c"), r.onCell)
	return r.reader.Start()
}

func (r *sheetReader) onCell(rs *sax.Reader, el sax.E) error {
	addr := el.GetAttributeValue("r")
	if el.SelfClosed {
		return nil
	}
	rs.Element(sax.LocalName("f"), func(rs *sax.Reader, el sax.E) error {
		if el.SelfClosed {
			return nil
		}
		rs.OnText(func(_ *sax.Reader, str string) error {
			text := strings.TrimSpace(str)
			if text == "" {
				return nil
			}
			if !strings.HasPrefix(text, "=") {
				text = "=" + text
			}
			r.list = append(r.list, Formula{
				Sheet: r.sheet,
				Cell:  addr,
				Text:  text,
			})
			return nil
		})
		return nil
	})
	return nil
}

const wbBaseDir = "xl"

type xmlWorkbook struct {
	XMLName xml.Name   `xml:"workbook"`
	Sheets  []xmlSheet `xml:"sheets>sheet"`
}

type xmlSheet struct {
	XMLName xml.Name `xml:"sheet"`
	Id      string   `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	Name    string   `xml:"name,attr"`
	Index   int      `xml:"sheetId,attr"`
}

type xmlRelations struct {
	XMLName   xml.Name      `xml:"Relationships"`
	Relations []xmlRelation `xml:"Relationship"`
}

type xmlRelation struct {
	XMLName xml.Name `xml:"Relationship"`
	Target  string   `xml:",attr"`
	Id      string   `xml:",attr"`
	Type    string   `xml:",attr"`
}

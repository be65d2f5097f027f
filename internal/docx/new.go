package docx

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const relsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const emptyDocumentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body></w:body></w:document>`

// New creates an empty document with the minimal part set required for a
// valid .docx file. Intended for tests and generated artifacts.
func New() *Document {
	d := &Document{
		parts: map[string][]byte{
			"[Content_Types].xml": []byte(contentTypesXML),
			"_rels/.rels":         []byte(relsXML),
			documentPath:          []byte(emptyDocumentXML),
		},
		order: []string{"[Content_Types].xml", "_rels/.rels", documentPath},
	}
	// parseBody cannot fail on the static template.
	_ = d.parseBody(emptyDocumentXML)
	return d
}

// AddTextParagraph appends a paragraph containing a single unstyled run.
func (d *Document) AddTextParagraph(text string) *Paragraph {
	p := d.AddParagraph()
	p.AppendRun(text)
	return p
}

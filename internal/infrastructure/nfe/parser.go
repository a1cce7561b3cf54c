package nfe

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/beevik/etree"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/pacoficinas/oficina-api/internal/domain"
	"github.com/pacoficinas/oficina-api/internal/domain/entity"
	"github.com/pacoficinas/oficina-api/pkg/decimals"
)

// Parse extrae cabecera y líneas de una NF-e de proveedor. Es una función
// pura del payload: no toca ningún store, toda la persistencia corre después
// en el caso de uso de importación.
//
// Los XML reales varían en el uso de prefijos de namespace, separador decimal
// (punto o coma) y charset (UTF-8 o ISO-8859-1); el parser tolera todas las
// combinaciones. Devuelve domain.ErrMalformedDocument si la raíz no es
// nfeProc/NFe y domain.ErrEmptyDocument si no hay ningún <det>.
func Parse(raw []byte) (*Invoice, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(stripBOM(raw)); err != nil {
		return nil, domain.ErrMalformedDocument
	}

	root := doc.Root()
	if root == nil || (root.Tag != "nfeProc" && root.Tag != "NFe") {
		return nil, domain.ErrMalformedDocument
	}

	inv := &Invoice{
		AccessKey: text(root, "chNFe"),
		Number:    text(root, "nNF"),
		Series:    text(root, "serie"),
	}
	// Sin chNFe (XML sin protocolo): la chave viene en el atributo Id de infNFe.
	if inv.AccessKey == "" {
		if infNFe := findElement(root, "infNFe"); infNFe != nil {
			inv.AccessKey = strings.TrimPrefix(infNFe.SelectAttrValue("Id", ""), "NFe")
		}
	}
	// Una NF-e sin chave no es identificable: registrarla dejaría el documento
	// con clave vacía bloqueando cualquier otra carga sin chave del taller.
	if inv.AccessKey == "" {
		return nil, domain.ErrMalformedDocument
	}

	if emit := findElement(root, "emit"); emit != nil {
		inv.SupplierTaxID = text(emit, "CNPJ")
		inv.SupplierName = text(emit, "xNome")
	}
	if inv.Number == "" && inv.SupplierName == "" {
		// Ni número ni emisor: no es el esquema esperado.
		return nil, domain.ErrMalformedDocument
	}

	inv.IssueDate = parseIssueDate(text(root, "dhEmi"), text(root, "dEmi"))

	if tot := findElement(root, "ICMSTot"); tot != nil {
		inv.DeclaredTotal = decimals.ParseOrZero(text(tot, "vNF"))
	}

	for _, det := range findElements(root, "det") {
		prod := findElement(det, "prod")
		if prod == nil {
			continue
		}
		line := Line{
			Code:        text(prod, "cProd"),
			Barcode:     text(prod, "cEAN"),
			Description: text(prod, "xProd"),
			NCM:         text(prod, "NCM"),
			CFOP:        text(prod, "CFOP"),
			Unit:        firstNonEmpty(text(prod, "uCom"), text(prod, "uTrib")),
			Quantity:    decimals.ParseOrZero(firstNonEmpty(text(prod, "qCom"), text(prod, "qTrib"))),
			UnitPrice:   decimals.ParseOrZero(firstNonEmpty(text(prod, "vUnCom"), text(prod, "vUnTrib"))),
			LineTotal:   decimals.ParseOrZero(text(prod, "vProd")),
		}
		inv.Lines = append(inv.Lines, line)
	}
	if len(inv.Lines) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	return inv, nil
}

// HasUsableBarcode indica si el barcode de la línea sirve para conciliar
// (no vacío y distinto del centinela SEM GTIN de la SEFAZ).
func (l *Line) HasUsableBarcode() bool {
	return l.Barcode != "" && l.Barcode != entity.NoBarcodeSentinel
}

// findElement busca el primer elemento tag bajo parent con tres estrategias
// degradantes: hijo directo, descendiente por path y recorrido completo
// comparando solo el nombre local (ignora cualquier prefijo de namespace).
func findElement(parent *etree.Element, tag string) *etree.Element {
	if el := parent.SelectElement(tag); el != nil {
		return el
	}
	if el := parent.FindElement(".//" + tag); el != nil {
		return el
	}
	return walkFirst(parent, tag)
}

// findElements devuelve todos los descendientes cuyo nombre local es tag.
func findElements(parent *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if child.Tag == tag {
				out = append(out, child)
				continue // un det no contiene otro det
			}
			walk(child)
		}
	}
	walk(parent)
	return out
}

func walkFirst(parent *etree.Element, tag string) *etree.Element {
	for _, child := range parent.ChildElements() {
		if child.Tag == tag {
			return child
		}
		if found := walkFirst(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// text devuelve el texto del primer elemento tag bajo parent, o "".
func text(parent *etree.Element, tag string) string {
	if el := findElement(parent, tag); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseIssueDate interpreta dhEmi (RFC3339) con fallback a dEmi (solo fecha).
func parseIssueDate(dhEmi, dEmi string) time.Time {
	if dhEmi != "" {
		if t, err := time.Parse(time.RFC3339, dhEmi); err == nil {
			return t
		}
		if len(dhEmi) >= 10 {
			if t, err := time.Parse("2006-01-02", dhEmi[:10]); err == nil {
				return t
			}
		}
	}
	if dEmi != "" {
		if t, err := time.Parse("2006-01-02", dEmi); err == nil {
			return t
		}
	}
	return time.Time{}
}

// charsetReader decodifica ISO-8859-1 (frecuente en NF-e antiguas) a UTF-8.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "iso-8859-1", "latin1", "windows-1252":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	default:
		return input, nil
	}
}

// stripBOM remueve el BOM UTF-8 que algunos ERPs anteponen al XML y que
// rompe la detección del elemento raíz.
func stripBOM(raw []byte) []byte {
	return bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
}

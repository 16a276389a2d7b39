// Package printing renders customer facing offers to PDF.
//
// An offer is produced in two steps: OfferRenderer turns a priced quotation
// request into HTML with html/template, then a PDFRenderer prints that HTML.
// ChromedpRenderer drives a headless Chrome through the DevTools protocol.
package printing

package publisher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/shouni/go-amazebook-kit/pkg/domain"

	"github.com/go-pdf/fpdf"
)

// 8x8 インチの正方形ページ (mm)
const (
	pageSize       = 203.2
	pageMargin     = 15.0
	storyImageSize = 130.0
	storyImageTop  = 12.0
	storyTextTop   = storyImageTop + storyImageSize + 8
	lineHeight     = 6.5
	fontFamily     = "Helvetica"
)

var pdfImageTypes = map[string]string{
	"image/jpeg": "JPG",
	"image/jpg":  "JPG",
	"image/png":  "PNG",
	"image/gif":  "GIF",
}

// pdfImageType は fpdf が埋め込める画像形式を返します。
func pdfImageType(img *resolvedImage) (string, bool) {
	mt := img.MimeType
	if _, ok := pdfImageTypes[mt]; !ok {
		mt = http.DetectContentType(img.Data)
	}
	t, ok := pdfImageTypes[mt]
	return t, ok
}

type pdfBook struct {
	ctx    context.Context
	pdf    *fpdf.Fpdf
	tr     func(string) string
	images map[int]*resolvedImage
}

// renderPDF は表紙、タイトル/献辞ページ、本文ページの順に PDF を組み立てます。
func renderPDF(ctx context.Context, p *domain.Project, images map[int]*resolvedImage, w io.Writer) error {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "mm",
		Size:    fpdf.SizeType{Wd: pageSize, Ht: pageSize},
	})
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(p.BookTitle(), true)
	pdf.SetCreator("Amazebook", true)

	b := &pdfBook{ctx: ctx, pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor(""), images: images}
	b.coverPage(p)
	b.dedicationPage(p)
	for _, page := range p.StoryPages {
		b.storyPage(page)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("PDF の出力に失敗しました: %w", err)
	}
	return nil
}

func (b *pdfBook) coverPage(p *domain.Project) {
	b.pdf.AddPage()
	b.placeImage(coverKey, 0, 0, pageSize)

	b.pdf.SetFillColor(255, 255, 255)
	b.pdf.Rect(0, 14, pageSize, 30, "F")
	b.pdf.SetTextColor(15, 23, 42)
	b.pdf.SetFont(fontFamily, "B", 24)
	b.pdf.SetXY(pageMargin, 19)
	b.pdf.MultiCell(pageSize-2*pageMargin, 10, b.tr(p.BookTitle()), "", "C", false)
}

func (b *pdfBook) dedicationPage(p *domain.Project) {
	b.pdf.AddPage()
	b.pdf.SetTextColor(15, 23, 42)
	b.pdf.SetFont(fontFamily, "B", 22)
	b.pdf.SetXY(pageMargin, 70)
	b.pdf.MultiCell(pageSize-2*pageMargin, 10, b.tr(p.BookTitle()), "", "C", false)

	dedication := p.Dedication
	if dedication == "" {
		dedication = p.DefaultDedication()
	}
	if dedication != "" {
		b.pdf.SetFont(fontFamily, "I", 14)
		b.pdf.SetXY(pageMargin+10, 110)
		b.pdf.MultiCell(pageSize-2*(pageMargin+10), 8, b.tr(dedication), "", "C", false)
	}
}

func (b *pdfBook) storyPage(page domain.StoryPage) {
	b.pdf.AddPage()
	b.placeImage(page.PageNumber, (pageSize-storyImageSize)/2, storyImageTop, storyImageSize)

	b.pdf.SetTextColor(30, 41, 59)
	b.pdf.SetFont(fontFamily, "", 13)
	b.pdf.SetXY(pageMargin, storyTextTop)
	b.pdf.MultiCell(pageSize-2*pageMargin, lineHeight, b.tr(strings.TrimSpace(page.Text)), "", "C", false)

	b.pdf.SetFont(fontFamily, "", 9)
	b.pdf.SetTextColor(100, 116, 139)
	b.pdf.SetXY(pageMargin, pageSize-12)
	b.pdf.CellFormat(pageSize-2*pageMargin, 6, strconv.Itoa(page.PageNumber), "", 0, "C", false, 0, "")
}

// placeImage は画像を正方形の枠に配置します。埋め込めない画像は枠を空けたまま警告を出します。
func (b *pdfBook) placeImage(key int, x, y, size float64) {
	img, ok := b.images[key]
	if !ok {
		return
	}
	imgType, ok := pdfImageType(img)
	if !ok {
		slog.WarnContext(b.ctx, "Image type cannot be embedded in PDF", "slot", key, "mime_type", img.MimeType)
		return
	}

	name := fmt.Sprintf("img_%d", key)
	opts := fpdf.ImageOptions{ImageType: imgType}
	b.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.Data))
	if b.pdf.Err() {
		slog.WarnContext(b.ctx, "Image could not be embedded in PDF", "slot", key, "error", b.pdf.Error())
		b.pdf.ClearError()
		return
	}
	b.pdf.ImageOptions(name, x, y, size, size, false, opts, 0, "")
}

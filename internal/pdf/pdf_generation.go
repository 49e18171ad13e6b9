package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// Generator — интерфейс (удобно мокать в тестах)
type Generator interface {
	GenerateArticle(data ArticleData) (string, error)
}

// ArticleGenerator — реализация
type ArticleGenerator struct {
	RootDir  string // корень хранения, например "./files"
	FontPath string // путь до TTF с кириллицей, например "assets/fonts/DejaVuSans.ttf"
	fontName string
}

type ArticleData struct {
	ID       int
	Title    string
	Author   string
	Category string
	Summary  string
	Content  string
	Views    int
	Created  time.Time
	Filename string // имя файла (без путей); если пусто — сгенерируем
}

func NewArticleGenerator(rootDir, fontPath string) *ArticleGenerator {
	return &ArticleGenerator{
		RootDir:  filepath.Clean(rootDir),
		FontPath: fontPath,
		fontName: "DejaVu",
	}
}

func (g *ArticleGenerator) GenerateArticle(data ArticleData) (string, error) {
	filename := data.Filename
	if filename == "" {
		filename = fmt.Sprintf("article_%d.pdf", data.ID)
	}
	absPath, err := g.ensureTarget(filename)
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(data.Title, true)
	pdf.SetAuthor(data.Author, true)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	g.addUTF8Font(pdf)
	pdf.AddPage()

	// ===== Заголовок
	pdf.SetFont(g.fontName, "B", 18)
	pdf.MultiCell(0, 10, data.Title, "", "C", false)

	pdf.SetFont(g.fontName, "", 11)
	sub := fmt.Sprintf("%s  ·  %s  ·  просмотров: %d",
		data.Author,
		data.Created.Format("02.01.2006"),
		data.Views,
	)
	pdf.CellFormat(0, 7, sub, "", 1, "C", false, 0, "")
	g.hr(pdf)

	pdf.Ln(3)

	// ===== Шапка
	if data.Category != "" {
		g.kvLine(pdf, "Рубрика", data.Category)
	}
	g.kvLine(pdf, "Анонс", data.Summary)
	pdf.Ln(2)
	g.hr(pdf)

	// ===== Текст
	g.sectionTitle(pdf, "Текст статьи")
	pdf.SetFont(g.fontName, "", 11)
	pdf.MultiCell(0, 6, data.Content, "", "L", false)

	if err := pdf.OutputFileAndClose(absPath); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return absPath, nil
}

func (g *ArticleGenerator) sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont(g.fontName, "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
}

func (g *ArticleGenerator) kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont(g.fontName, "B", 11)
	pdf.CellFormat(45, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(g.fontName, "", 11)
	pdf.MultiCell(0, 6, val, "", "L", false)
}

func (g *ArticleGenerator) hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func (g *ArticleGenerator) ensureTarget(filename string) (string, error) {
	if err := os.MkdirAll(g.RootDir, 0o755); err != nil {
		return "", fmt.Errorf("create files dir: %w", err)
	}
	filename = filepath.Base(filename) // безопасность
	return filepath.Join(g.RootDir, filename), nil
}

func (g *ArticleGenerator) addUTF8Font(pdf *gofpdf.Fpdf) {
	// AddUTF8Font принимает путь до TTF
	pdf.AddUTF8Font(g.fontName, "", g.FontPath)
	pdf.AddUTF8Font(g.fontName, "B", g.FontPath)
}

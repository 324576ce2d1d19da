// Package tui is the terminal catalog browser behind `storefront browse`.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/livefir/storefront/internal/catalog"
	"github.com/livefir/storefront/internal/shop"
	"github.com/livefir/storefront/internal/whatsapp"
)

var sortCycle = []catalog.SortOrder{catalog.SortRecent, catalog.SortPriceAsc, catalog.SortPriceDesc}

// Styles used by the browser.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Status   lipgloss.Style
	Detail   lipgloss.Style
	Help     lipgloss.Style
}

// DefaultStyles returns the browser styles.
func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#22c55e")),
		Subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Status:   lipgloss.NewStyle().Foreground(lipgloss.Color("#eab308")),
		Detail:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Help:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// BrowseModel lists a catalog with live search, category and sort cycling.
type BrowseModel struct {
	catalog  shop.Catalog
	filtered []catalog.Product

	table         table.Model
	search        textinput.Model
	searchFocused bool
	sortIndex     int
	categoryIndex int // 0 is every category
	showDetail    bool

	styles Styles
}

// NewBrowseModel returns a browser over c.
func NewBrowseModel(c shop.Catalog) BrowseModel {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Cód.", Width: 6},
			{Title: "Produto", Width: 32},
			{Title: "Categoria", Width: 16},
			{Title: "Preço", Width: 12},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	search := textinput.New()
	search.Placeholder = "Buscar por nome ou descrição..."
	search.CharLimit = 60
	search.Width = 40

	m := BrowseModel{
		catalog: c,
		table:   t,
		search:  search,
		styles:  DefaultStyles(),
	}
	m.applyFilter()
	return m
}

// Init implements tea.Model.
func (m BrowseModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if key, ok := msg.(tea.KeyMsg); ok {
		if m.searchFocused {
			switch key.Type {
			case tea.KeyEsc, tea.KeyEnter:
				m.searchFocused = false
				m.search.Blur()
				return m, nil
			case tea.KeyCtrlC:
				return m, tea.Quit
			}
			m.search, cmd = m.search.Update(msg)
			m.applyFilter()
			return m, cmd
		}

		switch key.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "/":
			m.searchFocused = true
			m.showDetail = false
			return m, m.search.Focus()
		case "s":
			m.sortIndex = (m.sortIndex + 1) % len(sortCycle)
			m.applyFilter()
			return m, nil
		case "c":
			m.categoryIndex = (m.categoryIndex + 1) % (len(m.catalog.Categories) + 1)
			m.applyFilter()
			return m, nil
		case "enter":
			m.showDetail = !m.showDetail && len(m.filtered) > 0
			return m, nil
		case "esc":
			if m.showDetail {
				m.showDetail = false
				return m, nil
			}
			m.search.SetValue("")
			m.categoryIndex = 0
			m.applyFilter()
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *BrowseModel) applyFilter() {
	m.filtered = catalog.Filter(m.catalog.Products, catalog.Query{
		Search:      m.search.Value(),
		CategoryID:  m.CategoryID(),
		VisibleOnly: true,
		Sort:        m.Sort(),
	})

	categories := make([]catalog.Category, len(m.catalog.Categories))
	for i, c := range m.catalog.Categories {
		categories[i] = c.Category
	}
	rows := make([]table.Row, len(m.filtered))
	for i, p := range m.filtered {
		rows[i] = table.Row{
			p.ItemNumber,
			p.Name,
			catalog.CategoryName(categories, p.CategoryID),
			catalog.FormatPrice(p.Price, m.catalog.Store.Currency()),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.SetCursor(max(len(rows)-1, 0))
	}
}

// Sort is the current sort order.
func (m BrowseModel) Sort() catalog.SortOrder {
	return sortCycle[m.sortIndex]
}

// CategoryID is the selected category, empty for all.
func (m BrowseModel) CategoryID() string {
	if m.categoryIndex == 0 {
		return ""
	}
	return m.catalog.Categories[m.categoryIndex-1].ID
}

// Products are the rows currently listed.
func (m BrowseModel) Products() []catalog.Product {
	return m.filtered
}

// Selected is the product under the cursor.
func (m BrowseModel) Selected() (catalog.Product, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.filtered) {
		return catalog.Product{}, false
	}
	return m.filtered[i], true
}

func (m BrowseModel) categoryLabel() string {
	if m.categoryIndex == 0 {
		return "Todas as categorias"
	}
	return m.catalog.Categories[m.categoryIndex-1].Name
}

// View implements tea.Model.
func (m BrowseModel) View() string {
	var b strings.Builder
	store := m.catalog.Store

	b.WriteString(m.styles.Title.Render(store.Name))
	b.WriteString("\n")
	if store.Description != "" {
		b.WriteString(m.styles.Subtitle.Render(store.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.search.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Status.Render(fmt.Sprintf("%s · %s · %d produto(s)",
		m.categoryLabel(), m.Sort().Label(), len(m.filtered))))
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")

	if p, ok := m.Selected(); ok && m.showDetail {
		b.WriteString(m.detail(p))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render("/ buscar · s ordenar · c categoria · enter detalhes · esc limpar · q sair"))
	return b.String()
}

func (m BrowseModel) detail(p catalog.Product) string {
	currency := m.catalog.Store.Currency()
	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(p.Name),
		"Código: " + p.ItemNumber,
	}
	price := catalog.FormatPrice(p.Price, currency)
	if d := catalog.Discount(p.Price, p.OriginalPrice); d > 0 {
		price = fmt.Sprintf("%s (de %s, -%d%%)", price, catalog.FormatPrice(p.OriginalPrice, currency), d)
	}
	lines = append(lines, "Preço: "+price)
	if p.Description != "" {
		lines = append(lines, p.Description)
	}
	if len(p.Tags) > 0 {
		labels := make([]string, len(p.Tags))
		for i, t := range p.Tags {
			labels[i] = t.Label()
		}
		lines = append(lines, "Tags: "+strings.Join(labels, ", "))
	}
	if m.catalog.Store.WhatsApp != "" {
		lines = append(lines, "Comprar: "+whatsapp.ChatURL(m.catalog.Store.WhatsApp, whatsapp.SingleProductMessage(p, currency)))
	}
	return m.styles.Detail.Render(strings.Join(lines, "\n"))
}

package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pthm/shiftview/lib/api"
	"github.com/pthm/shiftview/lib/paginate"
	"github.com/pthm/shiftview/lib/resource"
)

// pageKey selects a page of the public notice list. Offset 0 is a real
// page, so the key is never empty.
type pageKey struct{ Offset int }

func (pageKey) Empty() bool { return false }

const recommendedKey = "recommended"

// listView is the public notice list with the recommended notice carousel
// above it.
type listView struct {
	d  *deps
	id uint64

	offset   int
	cursor   int
	pageSize int

	notices *resource.Fetcher[pageKey, api.List[api.Notice]]
	picks   *resource.Fetcher[string, []api.Notice]
	slider  *paginate.Slider
	stop    func()
}

func newListView(d *deps, offset, width int) *listView {
	v := &listView{d: d, id: d.nextID(), offset: offset, pageSize: d.pageSize(width)}
	notify := resource.OnChange(func() { d.post(changed{view: v.id}) })

	v.notices = resource.NewFetcher(func(ctx context.Context, k pageKey) (api.List[api.Notice], error) {
		return d.api.ListNotices(ctx, api.NoticeQuery{Page: api.Page{Offset: k.Offset, Limit: api.NoticeListLimit}})
	}, notify, resource.WithLogger(d.logger, "notices"))

	v.picks = resource.NewFetcher(func(ctx context.Context, _ string) ([]api.Notice, error) {
		l, err := d.api.ListNotices(ctx, api.NoticeQuery{Page: api.Page{Limit: api.CarouselFetchMax}})
		return l.Items, err
	}, notify, resource.WithLogger(d.logger, "recommended"))

	v.slider = paginate.NewSlider(paginate.NewWindow(0, v.pageSize),
		d.sliderOptions(func(paginate.Window) { d.post(slid{view: v.id}) })...)
	return v
}

func (v *listView) Init() tea.Cmd {
	v.notices.Set(pageKey{Offset: v.offset})
	v.picks.Set(recommendedKey)
	v.stop = v.slider.Start(context.Background())
	return nil
}

func (v *listView) Close() {
	if v.stop != nil {
		v.stop()
	}
	v.notices.Close()
	v.picks.Close()
}

func (v *listView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case changed:
		if msg.view == v.id {
			v.sync()
		}
	case tea.WindowSizeMsg:
		v.pageSize = v.d.pageSize(msg.Width)
		v.sync()
	case tea.KeyMsg:
		return v, v.onKey(msg.String())
	}
	return v, nil
}

// sync sizes the carousel to the recommended notices and keeps the
// cursor on the current page.
func (v *listView) sync() {
	if st := v.picks.State(); st.Present {
		v.slider.Resize(len(st.Data), v.pageSize)
	}
	n := len(v.notices.State().Data.Items)
	if v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
}

func (v *listView) onKey(k string) tea.Cmd {
	st := v.notices.State()
	items := st.Data.Items
	switch k {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(items)-1 {
			v.cursor++
		}
	case "right", "l", "n":
		if st.Present && st.Data.HasNext {
			v.turn(v.offset + api.NoticeListLimit)
		}
	case "left", "h", "p":
		if v.offset > 0 {
			v.turn(v.offset - api.NoticeListLimit)
		}
	case "r":
		v.notices.Reload()
		v.picks.Reload()
	case "enter":
		if st.Present && v.cursor < len(items) {
			n := items[v.cursor]
			return navigate(openNotice{shopID: n.Shop.ID, noticeID: n.ID, offset: v.offset})
		}
	}
	return nil
}

// turn moves to the page at offset without waiting for the current page
// to arrive. Only the last requested page is ever shown.
func (v *listView) turn(offset int) {
	v.offset = max(offset, 0)
	v.cursor = 0
	v.notices.Set(pageKey{Offset: v.offset})
}

func (v *listView) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Recommended notices") + "\n")
	b.WriteString(v.carousel() + "\n\n")

	page := paginate.NewPageInfo(v.offset, api.NoticeListLimit, v.notices.State().Data.Count, false)
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("All notices"), dimStyle.Render(fmt.Sprintf("page %d", page.Page())))
	b.WriteString(v.list() + "\n\n")
	b.WriteString(dimStyle.Render(helpKeys))
	return b.String()
}

func (v *listView) carousel() string {
	st := v.picks.State()
	switch {
	case st.Failed():
		return errorStyle.Render("Failed to fetch data")
	case !st.Present:
		return dimStyle.Render("Loading…")
	case len(st.Data) == 0:
		return dimStyle.Render("No notices yet.")
	}

	w := v.slider.Window()
	// The snapshot may predate the latest Resize.
	w.Resize(len(st.Data), v.pageSize)
	cards := make([]string, 0, v.pageSize)
	for _, n := range paginate.Page(st.Data, w) {
		style := cardStyle
		if n.Closed || n.Past(v.d.now()) {
			style = closedCardStyle
		}
		cards = append(cards, style.Render(fmt.Sprintf("%s\n%s\n%s%s",
			n.Shop.Name, schedule(n.StartsAt, n.WorkHour, v.d.loc), won(n.HourlyPay), increase(n))))
	}
	dots := dimStyle.Render(fmt.Sprintf("%d/%d", w.Index+1, w.TotalPages()))
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...) + "\n" + dots
}

func (v *listView) list() string {
	st := v.notices.State()
	switch {
	case st.Failed() && !st.Present:
		return errorStyle.Render(api.Message(st.Err))
	case !st.Present:
		return dimStyle.Render("Loading…")
	case len(st.Data.Items) == 0:
		return dimStyle.Render("No notices yet.")
	}

	var b strings.Builder
	for i, n := range st.Data.Items {
		line := fmt.Sprintf("%-20s %-36s %s", n.Shop.Name, schedule(n.StartsAt, n.WorkHour, v.d.loc), won(n.HourlyPay))
		if n.Closed || n.Past(v.d.now()) {
			line += dimStyle.Render("  closed")
		}
		if i == v.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteByte('\n')
	}
	if st.Stale {
		b.WriteString(dimStyle.Render("Refreshing…"))
	}
	if st.Failed() {
		b.WriteString(errorStyle.Render(api.Message(st.Err)))
	}
	return strings.TrimRight(b.String(), "\n")
}

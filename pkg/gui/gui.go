package gui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"strings"

	"dictdoy/pkg/export"
	"dictdoy/pkg/lookup"
	"dictdoy/pkg/render"
	"dictdoy/pkg/runner"
	"dictdoy/pkg/state"

	"gioui.org/app"
	"gioui.org/font"
	"gioui.org/font/gofont"
	"gioui.org/font/opentype"
	"gioui.org/io/key"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
)

var (
	lightPalette = material.Palette{
		Bg:         color.NRGBA{R: 0xE8, G: 0xE8, B: 0xE8, A: 0xFF}, // #E8E8E8
		Fg:         color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xFF},
		ContrastBg: color.NRGBA{R: 0x13, G: 0x7A, B: 0x50, A: 0xFF}, // #137A50
		ContrastFg: color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	}
	darkPalette = material.Palette{
		Bg:         color.NRGBA{R: 0x1B, G: 0x1B, B: 0x1B, A: 0xFF},
		Fg:         color.NRGBA{R: 0xDC, G: 0xDC, B: 0xDC, A: 0xFF},
		ContrastBg: color.NRGBA{R: 0x13, G: 0x7A, B: 0x50, A: 0xFF},
		ContrastFg: color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	}
	phoneticColor = color.NRGBA{R: 0xD0, G: 0x30, B: 0x30, A: 0xFF}
)

// exportResult 保存导出操作的结果
type exportResult struct {
	rows int
	err  error
}

// guiState 保存GUI的状态
type guiState struct {
	theme     *material.Theme
	themeName string
	editor    widget.Editor
	list      widget.List
	quitBtn   widget.Clickable
	exportBtn widget.Clickable
	themeBtn  widget.Clickable

	// 日志面板
	logBtn      widget.Clickable
	clearLogBtn widget.Clickable
	logList     widget.List
	showLogs    bool

	result  lookup.Result // 当前查询结果
	view    render.View   // result 的显示内容
	status  string
	trigger *lookup.Trigger

	ctx              context.Context
	services         *runner.Services
	searcher         *lookup.Searcher
	store            *state.Store
	window           *app.Window
	explorerInst     *explorer.Explorer
	exportResultChan chan exportResult // 导出结果的通道
	exporting        bool
	initialized      bool
}

// CreateGUI 初始化并运行GUI，窗口关闭时保存状态并退出进程
func CreateGUI(ctx context.Context, svc *runner.Services, store *state.Store) {
	go func() {
		w := new(app.Window)
		w.Option(
			app.Title("Dictdoy"),
			app.Size(unit.Dp(float32(svc.Config.UI.Width)), unit.Dp(float32(svc.Config.UI.Height))),
		)

		st := newGUIState(ctx, w, svc, store)
		if err := run(st); err != nil {
			svc.Logger.Errorf("Window closed with error: %v", err)
			os.Exit(1)
		}
		os.Exit(0)
	}()
	app.Main()
}

func newGUIState(ctx context.Context, w *app.Window, svc *runner.Services, store *state.Store) *guiState {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(fontCollection(svc)))

	st := &guiState{
		theme:            th,
		ctx:              ctx,
		services:         svc,
		store:            store,
		window:           w,
		exportResultChan: make(chan exportResult, 1),
	}
	st.editor.SingleLine = true
	st.editor.Submit = true
	st.list.Axis = layout.Vertical
	st.logList.Axis = layout.Vertical
	st.logList.ScrollToEnd = true
	st.searcher = lookup.NewSearcher(svc.Adapter, svc.Fallback, svc.Logger, w.Invalidate)

	// 恢复上次的查询和结果，不重新查询
	saved := store.Load()
	st.editor.SetText(saved.Query)
	st.trigger = lookup.NewTrigger(saved.Query)
	st.applyResult(saved.Result())
	st.setTheme(saved.Theme)
	return st
}

// fontCollection 在 Go 字体之前加入配置的字体，中文字形由系统字体补充
func fontCollection(svc *runner.Services) []font.FontFace {
	collection := gofont.Collection()
	path := svc.Config.UI.FontPath
	if path == "" {
		return collection
	}

	data, err := os.ReadFile(path)
	if err != nil {
		svc.Logger.Warnf("Failed to read font %s: %v", path, err)
		return collection
	}
	faces, err := opentype.ParseCollection(data)
	if err != nil {
		svc.Logger.Warnf("Failed to parse font %s: %v", path, err)
		return collection
	}
	svc.Logger.Debugf("Loaded %d font faces from %s", len(faces), path)
	return append(faces, collection...)
}

func (st *guiState) setTheme(name string) {
	if name == state.ThemeDark {
		st.themeName = state.ThemeDark
		st.theme.Palette = darkPalette
		return
	}
	st.themeName = state.ThemeLight
	st.theme.Palette = lightPalette
}

func (st *guiState) applyResult(res lookup.Result) {
	st.result = res
	st.view = render.Layout(res)
	st.list.Position = layout.Position{}
}

// drainResults 处理通道中的结果
func (st *guiState) drainResults() {
	for {
		select {
		case res := <-st.searcher.Results():
			// 编辑器内容已经变化的旧结果不再显示
			if res.Query != trimmed(st.editor.Text()) {
				continue
			}
			st.applyResult(res)
		case res := <-st.exportResultChan:
			st.exporting = false
			switch {
			case errors.Is(res.err, explorer.ErrUserDecline):
				st.status = "Export cancelled"
			case res.err != nil:
				st.services.Logger.Errorf("Export failed: %v", res.err)
				st.status = "Export failed: " + res.err.Error()
			default:
				st.services.Logger.Infof("Exported %d entries", res.rows)
				st.status = fmt.Sprintf("Exported %d entries", res.rows)
			}
		default:
			return
		}
	}
}

func (st *guiState) startExport() {
	if st.exporting || st.result.Kind != lookup.HasMatches {
		return
	}
	st.exporting = true
	st.status = "Exporting..."

	query := st.result.Query
	rows := export.Rows(query, st.result.Entries)
	go func() {
		wc, err := st.explorerInst.CreateFile(export.FileName(query))
		if err == nil {
			err = export.WriteXLSX(wc, rows)
			if cerr := wc.Close(); err == nil {
				err = cerr
			}
		}
		st.exportResultChan <- exportResult{rows: len(rows), err: err}
		st.window.Invalidate()
	}()
}

func (st *guiState) saveState() {
	// 保存当前显示的结果，查询和词条始终成对
	if err := st.store.Save(state.Snapshot(st.result, st.themeName)); err != nil {
		st.services.Logger.Errorf("Failed to save state: %v", err)
	}
}

// run 实现GUI的主循环
func run(st *guiState) error {
	var ops op.Ops
	st.explorerInst = explorer.NewExplorer(st.window)

	for {
		st.drainResults()

		e := st.window.Event()
		st.explorerInst.ListenEvents(e)

		switch e := e.(type) {
		case app.DestroyEvent:
			st.searcher.Close()
			st.saveState()
			return e.Err

		case app.FrameEvent:
			gtx := app.NewContext(&ops, e)

			if !st.initialized {
				st.window.Perform(system.ActionCenter)
				gtx.Execute(key.FocusCmd{Tag: &st.editor})
				st.initialized = true
			}

			// 允许使用Esc键关闭窗口
			for {
				ev, ok := gtx.Event(key.Filter{Name: key.NameEscape})
				if !ok {
					break
				}
				if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
					st.window.Perform(system.ActionClose)
				}
			}

			// 只在文本变化时查询
			for {
				ev, ok := st.editor.Update(gtx)
				if !ok {
					break
				}
				if _, ok := ev.(widget.ChangeEvent); ok && st.trigger.Changed(st.editor.Text()) {
					st.status = ""
					st.searcher.Submit(st.ctx, st.editor.Text())
				}
			}
			st.drainResults()

			if st.quitBtn.Clicked(gtx) {
				st.window.Perform(system.ActionClose)
			}
			if st.exportBtn.Clicked(gtx) {
				st.startExport()
			}
			if st.themeBtn.Clicked(gtx) {
				if st.themeName == state.ThemeDark {
					st.setTheme(state.ThemeLight)
				} else {
					st.setTheme(state.ThemeDark)
				}
			}
			if st.logBtn.Clicked(gtx) {
				st.showLogs = !st.showLogs
			}
			if st.clearLogBtn.Clicked(gtx) {
				st.services.Logger.Clear()
			}

			renderUI(gtx, st)
			e.Frame(gtx.Ops)
		}
	}
}

// renderUI 渲染界面
func renderUI(gtx layout.Context, st *guiState) layout.Dimensions {
	drawBackground(gtx, st.theme.Bg)

	return layout.UniformInset(unit.Dp(10)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return menuBar(gtx, st)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(8)}.Layout),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return searchField(gtx, st)
			}),
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return statusLine(gtx, st)
			}),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				if st.showLogs {
					return logPanel(gtx, st)
				}
				return results(gtx, st)
			}),
		)
	})
}

func menuBar(gtx layout.Context, st *guiState) layout.Dimensions {
	logLabel := "Log"
	if st.showLogs {
		logLabel = "Results"
	}
	themeLabel := "Dark"
	if st.themeName == state.ThemeDark {
		themeLabel = "Light"
	}
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return buttonLayout(gtx, st.theme, &st.quitBtn, "Quit", false)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			disabled := st.exporting || st.result.Kind != lookup.HasMatches
			return buttonLayout(gtx, st.theme, &st.exportBtn, "Export", disabled)
		}),
		layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
			return layout.Dimensions{Size: image.Point{X: gtx.Constraints.Min.X}}
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return buttonLayout(gtx, st.theme, &st.logBtn, logLabel, false)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return buttonLayout(gtx, st.theme, &st.themeBtn, themeLabel, false)
		}),
	)
}

func searchField(gtx layout.Context, st *guiState) layout.Dimensions {
	border := widget.Border{Color: muted(st.theme.Fg, 0x80), CornerRadius: unit.Dp(4), Width: unit.Dp(1)}
	return border.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			ed := material.Editor(st.theme, &st.editor, render.NoMatchesText)
			ed.TextSize = unit.Sp(16)
			return ed.Layout(gtx)
		})
	})
}

func statusLine(gtx layout.Context, st *guiState) layout.Dimensions {
	msg := st.status
	if msg == "" {
		msg = st.services.Logger.LastProblem()
	}
	if msg == "" {
		return layout.Dimensions{}
	}
	return layout.Inset{Top: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		lbl := material.Caption(st.theme, msg)
		lbl.Color = muted(st.theme.Fg, 0xB0)
		lbl.MaxLines = 1
		return lbl.Layout(gtx)
	})
}

func results(gtx layout.Context, st *guiState) layout.Dimensions {
	return layout.Inset{Top: unit.Dp(10)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		if len(st.view.Blocks) == 0 {
			lbl := material.Body2(st.theme, st.view.Placeholder)
			lbl.Color = muted(st.theme.Fg, 0x99)
			return lbl.Layout(gtx)
		}
		return material.List(st.theme, &st.list).Layout(gtx, len(st.view.Blocks), func(gtx layout.Context, i int) layout.Dimensions {
			return entryBlock(gtx, st.theme, st.view.Blocks[i])
		})
	})
}

// logPanel 显示内存中的日志，最新的在最后
func logPanel(gtx layout.Context, st *guiState) layout.Dimensions {
	lines := st.services.Logger.GetLogs()
	return layout.Inset{Top: unit.Dp(10)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(func(gtx layout.Context) layout.Dimensions {
				return buttonLayout(gtx, st.theme, &st.clearLogBtn, "Clear", len(lines) == 0)
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				if len(lines) == 0 {
					lbl := material.Body2(st.theme, "No log messages")
					lbl.Color = muted(st.theme.Fg, 0x99)
					return lbl.Layout(gtx)
				}
				return material.List(st.theme, &st.logList).Layout(gtx, len(lines), func(gtx layout.Context, i int) layout.Dimensions {
					lbl := material.Caption(st.theme, lines[i])
					lbl.Font.Typeface = "Go Mono"
					return lbl.Layout(gtx)
				})
			}),
		)
	})
}

// entryBlock 显示一个词条：词头、拼音、释义，最后是分隔线
func entryBlock(gtx layout.Context, th *material.Theme, b render.Block) layout.Dimensions {
	children := []layout.FlexChild{
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Flex{Alignment: layout.Baseline}.Layout(gtx,
				layout.Rigid(material.H5(th, b.Headword).Layout),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					if b.Traditional == "" {
						return layout.Dimensions{}
					}
					lbl := material.Body2(th, b.Traditional)
					lbl.Color = muted(th.Fg, 0x99)
					return layout.Inset{Left: unit.Dp(8)}.Layout(gtx, lbl.Layout)
				}),
				layout.Rigid(func(gtx layout.Context) layout.Dimensions {
					if b.HSK == 0 {
						return layout.Dimensions{}
					}
					lbl := material.Caption(th, fmt.Sprintf("HSK %d", b.HSK))
					lbl.Color = th.ContrastBg
					return layout.Inset{Left: unit.Dp(8)}.Layout(gtx, lbl.Layout)
				}),
			)
		}),
		layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			lbl := material.Body1(th, b.Phonetic)
			lbl.Color = phoneticColor
			return lbl.Layout(gtx)
		}),
	}
	for _, gloss := range b.Glosses {
		children = append(children, layout.Rigid(material.Body1(th, "• "+gloss).Layout))
	}
	if len(b.MeasureWords) > 0 {
		mw := "Measure words: " + strings.Join(b.MeasureWords, ", ")
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			lbl := material.Caption(th, mw)
			lbl.Color = muted(th.Fg, 0xB0)
			return lbl.Layout(gtx)
		}))
	}
	children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
		return layout.Inset{Top: unit.Dp(6), Bottom: unit.Dp(6)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			return separator(gtx, muted(th.Fg, 0x40))
		})
	}))

	return layout.Flex{Axis: layout.Vertical}.Layout(gtx, children...)
}

func separator(gtx layout.Context, c color.NRGBA) layout.Dimensions {
	size := image.Point{X: gtx.Constraints.Max.X, Y: gtx.Dp(1)}
	paint.FillShape(gtx.Ops, c, clip.Rect{Max: size}.Op())
	return layout.Dimensions{Size: size}
}

// drawBackground 绘制背景色
func drawBackground(gtx layout.Context, c color.NRGBA) {
	size := gtx.Constraints.Max
	paint.FillShape(gtx.Ops, c, clip.Rect{Max: size}.Op())
}

// buttonLayout 创建按钮布局
func buttonLayout(gtx layout.Context, theme *material.Theme, button *widget.Clickable, label string, disabled bool) layout.Dimensions {
	margins := layout.Inset{Right: unit.Dp(6)}

	return margins.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		gtx.Constraints.Min.X = gtx.Dp(64)

		btn := material.Button(theme, button, label)
		btn.CornerRadius = unit.Dp(4)
		btn.Inset = layout.Inset{
			Top:    unit.Dp(4),
			Bottom: unit.Dp(4),
			Left:   unit.Dp(8),
			Right:  unit.Dp(8),
		}
		btn.TextSize = unit.Sp(14)

		if disabled {
			gtx = gtx.Disabled()
			btn.Background = color.NRGBA{R: 200, G: 200, B: 200, A: 255} // 浅灰色背景
			btn.Color = color.NRGBA{R: 150, G: 150, B: 150, A: 255}      // 灰色文字
		}

		return btn.Layout(gtx)
	})
}

func muted(c color.NRGBA, alpha uint8) color.NRGBA {
	c.A = alpha
	return c
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

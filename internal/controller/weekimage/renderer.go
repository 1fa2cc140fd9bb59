package weekimage

import (
	"bytes"
	"image/color"
	"strconv"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/classdesk/scheduler/internal/model"
)

// Константы размеров и отступов
const (
	imageWidth      = 1200
	imageHeight     = 860
	headerHeight    = 90
	leftLabelsWidth = 70
	legendWidth     = 150
	dayPaddingX     = 6
	itemRadius      = 5.0
	totalDays       = 6 // Пн-Сб
	hourPaddingTop  = 1
	hourPaddingBot  = 1
	defaultMinHour  = 6
	defaultMaxHour  = 22
)

// Цветовая схема
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	todayBgColor   = color.NRGBA{255, 99, 71, 90}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{222, 222, 222, 255}

	bookedColor   = color.RGBA{255, 182, 193, 255}
	attendedColor = color.RGBA{133, 193, 85, 220}
	absentColor   = color.RGBA{158, 158, 158, 200}
	freeColor     = color.RGBA{135, 180, 230, 220}
	itemTextColor = color.RGBA{20, 24, 28, 230}

	legendItemColor = color.RGBA{70, 74, 78, 220}
)

// hourRange диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// Render рисует расписание недели Пн-Сб в PNG. Каждый элемент
// расписания — блок в колонке своего дня, цвет по статусу.
func Render(weekStart time.Time, days []*model.DaySchedule) ([]byte, error) {
	today := model.DateOnly(time.Now())
	hours := calculateHourRange(days)

	dc := createCanvas()
	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / totalDays
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, weekStart)
	drawHourLabels(dc, hours, cellHeight)
	drawDays(dc, weekStart, today, days, hours, dayWidth, dayHeight, cellHeight)
	drawLegend(dc, dayWidth)

	return encodeImage(dc)
}

// calculateHourRange определяет диапазон часов по элементам расписания
func calculateHourRange(days []*model.DaySchedule) hourRange {
	minHour := 24
	maxHour := 0

	for _, day := range days {
		for _, item := range day.Items {
			h, ok := parseHour(item.Hour)
			if !ok {
				continue
			}
			if h < minHour {
				minHour = h
			}
			if h > maxHour {
				maxHour = h
			}
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour + 1,
	}
}

func parseHour(label string) (int, bool) {
	if len(label) < 2 {
		return 0, false
	}
	h, err := strconv.Atoi(label[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

func createCanvas() *gg.Context {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(bgColor)
	dc.Clear()
	return dc
}

// drawHeader рисует заголовок с границами недели
func drawHeader(dc *gg.Context, weekStart time.Time) {
	weekEnd := weekStart.AddDate(0, 0, totalDays-1)
	title := weekStart.Format("02.01.2006") + " - " + weekEnd.Format("02.01.2006")

	dc.SetColor(textColor)
	w, h := dc.MeasureString(title)
	dc.DrawStringAnchored(title, float64(imageWidth)/2-w/2, float64(headerHeight)/4+h/2, 0, 0)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		actualHour := hours.start + hIdx
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		dc.DrawStringAnchored(formatHourLabel(actualHour), float64(leftLabelsWidth)-8, y, 1, 0.5)
	}
}

// drawDays рисует колонки дней с элементами расписания
func drawDays(dc *gg.Context, weekStart, today time.Time, days []*model.DaySchedule,
	hours hourRange, dayWidth, dayHeight int, cellHeight float64) {

	byDate := make(map[string]*model.DaySchedule, len(days))
	for _, day := range days {
		byDate[day.Date.Format(model.DateLayout)] = day
	}

	currentDate := weekStart
	for dayIndex := 0; dayIndex < totalDays; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, currentDate.Equal(today))
		drawDayHeader(dc, currentDate, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)

		if day, ok := byDate[currentDate.Format(model.DateLayout)]; ok {
			for i := range day.Items {
				drawItem(dc, &day.Items[i], x, hours, dayWidth, cellHeight)
			}
		}

		currentDate = currentDate.AddDate(0, 0, 1)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	if isToday {
		dc.SetColor(todayBgColor)
	} else if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y-28, 0.5, 0)
	dc.DrawStringAnchored(weekdayShort(date.Weekday()), x+float64(dayWidth)/2, y-12, 0.5, 0)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// drawItem рисует один элемент расписания в его часовой ячейке
func drawItem(dc *gg.Context, item *model.ScheduleItem, x float64, hours hourRange, dayWidth int, cellHeight float64) {
	h, ok := parseHour(item.Hour)
	if !ok || h < hours.start || h > hours.end {
		return
	}

	itemY := float64(headerHeight) + float64(h-hours.start)*cellHeight
	itemWidth := float64(dayWidth) - float64(dayPaddingX*2)

	dc.SetColor(itemColor(item))
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), itemY+2, itemWidth, cellHeight-4, itemRadius)
	dc.Fill()

	label := item.StudentName
	maxLen := dayWidth/8 - 2
	if maxLen > 3 && len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}

	dc.SetColor(itemTextColor)
	dc.DrawStringAnchored(item.Hour, x+float64(dayPaddingX)+6, itemY+varOffset(cellHeight), 0, 0)
	if label != "" && cellHeight > 28 {
		dc.DrawStringAnchored(label, x+float64(dayPaddingX)+6, itemY+varOffset(cellHeight)+14, 0, 0)
	}
}

func varOffset(cellHeight float64) float64 {
	off := cellHeight / 3
	if off < 12 {
		off = 12
	}
	return off
}

// itemColor цвет блока по виду и статусу элемента
func itemColor(item *model.ScheduleItem) color.RGBA {
	if item.Kind == model.ItemFree {
		return freeColor
	}
	if item.Status == nil {
		return bookedColor
	}
	switch *item.Status {
	case model.StatusAttended:
		return attendedColor
	case model.StatusAbsent:
		return absentColor
	default:
		return bookedColor
	}
}

// drawLegend рисует легенду справа
func drawLegend(dc *gg.Context, dayWidth int) {
	legendX := float64(leftLabelsWidth + totalDays*dayWidth + 12)
	legendY := float64(imageHeight) - 120.0

	legendItems := []struct {
		Label string
		Clr   color.Color
	}{
		{"Забронировано", bookedColor},
		{"Посещено", attendedColor},
		{"Пропущено", absentColor},
		{"Свободный план", freeColor},
	}

	boxW := 18.0
	boxH := 13.0
	liY := legendY

	for _, item := range legendItems {
		dc.SetColor(item.Clr)
		dc.DrawRoundedRectangle(legendX, liY, boxW, boxH, 3)
		dc.Fill()

		dc.SetColor(legendItemColor)
		dc.DrawStringAnchored(item.Label, legendX+boxW+8, liY+boxH/2+1, 0, 0.3)
		liY += boxH + 12
	}
}

func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatHourLabel(h int) string {
	if h < 10 {
		return "0" + strconv.Itoa(h) + ":00"
	}
	return strconv.Itoa(h) + ":00"
}

// короткие дни недели
func weekdayShort(weekday time.Weekday) string {
	weekdays := map[time.Weekday]string{
		time.Monday:    "Пн",
		time.Tuesday:   "Вт",
		time.Wednesday: "Ср",
		time.Thursday:  "Чт",
		time.Friday:    "Пт",
		time.Saturday:  "Сб",
		time.Sunday:    "Вс",
	}
	return weekdays[weekday]
}

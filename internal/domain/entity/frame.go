package entity

import "image/color"

// Frame один кадр видеопотока. Пиксели хранятся построчно, каналы
// чередуются в порядке BGR (BGRA для 4 каналов, яркость для 1).
type Frame struct {
	Seq      uint64 // порядковый номер кадра в сессии
	Width    int    // ширина в пикселях
	Height   int    // высота в пикселях
	Channels int    // число каналов: 1, 3 или 4
	Pix      []byte // len(Pix) == Width*Height*Channels
}

// NewFrame создаёт кадр поверх готового буфера пикселей.
func NewFrame(seq uint64, width, height, channels int, pix []byte) Frame {
	return Frame{Seq: seq, Width: width, Height: height, Channels: channels, Pix: pix}
}

// Empty сообщает, что в кадре нет данных.
func (f Frame) Empty() bool {
	return f.Width <= 0 || f.Height <= 0 || len(f.Pix) < f.Width*f.Height*f.Channels
}

// Stride возвращает длину строки в байтах.
func (f Frame) Stride() int {
	return f.Width * f.Channels
}

// Clone возвращает независимую копию кадра.
func (f Frame) Clone() Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	f.Pix = pix
	return f
}

// Crop описывает рамку, отрезаемую от краёв кадра.
type Crop struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// IsZero сообщает, что обрезка не настроена.
func (c Crop) IsZero() bool {
	return c == Crop{}
}

// Apply обрезает кадр. Если после обрезки ничего не останется,
// кадр возвращается без изменений.
func (c Crop) Apply(f Frame) Frame {
	if c.IsZero() || c.Top < 0 || c.Bottom < 0 || c.Left < 0 || c.Right < 0 {
		return f
	}
	w := f.Width - c.Left - c.Right
	h := f.Height - c.Top - c.Bottom
	if w <= 0 || h <= 0 || f.Empty() {
		return f
	}

	stride := f.Stride()
	rowLen := w * f.Channels
	pix := make([]byte, 0, rowLen*h)
	for y := c.Top; y < c.Top+h; y++ {
		start := y*stride + c.Left*f.Channels
		pix = append(pix, f.Pix[start:start+rowLen]...)
	}
	return Frame{Seq: f.Seq, Width: w, Height: h, Channels: f.Channels, Pix: pix}
}

// BoxStyle задаёт цвет и толщину рамки вокруг найденной машины.
type BoxStyle struct {
	Color     color.RGBA
	Thickness int
}

// DefaultBoxStyle зелёная рамка толщиной 2 пикселя.
var DefaultBoxStyle = BoxStyle{Color: color.RGBA{G: 255, A: 255}, Thickness: 2}

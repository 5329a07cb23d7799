package client

import (
	"fmt"
	"log"
	"strings"
	"time"

	"mapforge/internal/mapgen"
	"mapforge/internal/protocol"
	"mapforge/internal/rng"
	"mapforge/pkg/maps"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 800

	sidebarWidth = 280
	margin       = 10
)

// Options configure a viewer at start up.
type Options struct {
	// Server switches to remote generation when non-empty.
	Server string
	// Params override the remembered settings when non-nil.
	Params *mapgen.Params
}

// shown is the map currently on screen.
type shown struct {
	m         *maps.Map
	params    mapgen.Params
	requested int
	fallbacks []int
	distance  int
	summary   maps.Summary
	elapsed   time.Duration
}

// Viewer is the Ebitengine game that displays generated maps.
type Viewer struct {
	config  *Config
	network *NetworkClient
	remote  bool
	storage bool

	params mapgen.Params
	seeds  *rng.RNG

	current *shown
	busy    bool
	status  string
	rules   *maps.Ruleset
	hover   string

	// events run on the game loop; network and generation goroutines post here
	events chan func()

	mapImage *ebiten.Image
	pixels   []byte
	dirty    bool

	buttons    []*Button
	saveBtn    *Button
	storedBtn  *Button
	stored     *List
	showStored bool
}

// NewViewer creates a viewer. With a server address it connects at once and
// generates remotely.
func NewViewer(opts Options) (*Viewer, error) {
	config, err := LoadConfig()
	if err != nil {
		log.Printf("Failed to load config: %v", err)
	}

	InitClipboard()

	v := &Viewer{
		config:  config,
		network: NewNetworkClient(),
		params:  config.LastParams,
		seeds:   rng.New(uint64(time.Now().UnixNano())),
		rules:   maps.DefaultRuleset(),
		events:  make(chan func(), 64),
		stored:  NewList(ScreenWidth-sidebarWidth+margin, 420, sidebarWidth-2*margin, ScreenHeight-430),
		dirty:   true,
	}
	if opts.Params != nil {
		v.params = *opts.Params
	}
	if err := v.params.Validate(); err != nil {
		return nil, err
	}

	v.network.OnMessage = func(msg *protocol.Message) {
		v.post(func() { v.handleMessage(msg) })
	}
	v.network.OnDisconnect = func(error) {
		v.post(func() {
			v.remote = false
			v.busy = false
			v.storage = false
			v.status = "Disconnected; generating locally"
		})
	}

	if opts.Server != "" {
		if err := v.network.Connect(opts.Server); err != nil {
			return nil, fmt.Errorf("connect to %s: %w", opts.Server, err)
		}
		v.remote = true
		v.config.LastServer = opts.Server
	}

	v.stored.OnSelect = func(id string) {
		if err := v.network.RequestStored(id); err != nil {
			v.status = err.Error()
		}
	}
	v.createButtons()
	v.generate(v.params)

	return v, nil
}

func (v *Viewer) createButtons() {
	x := ScreenWidth - sidebarWidth + margin
	w := sidebarWidth - 2*margin
	half := (w - margin) / 2
	y := 210

	newBtn := &Button{X: x, Y: y, W: half, H: 30, Text: "New [Space]", Primary: true, OnClick: v.newMap}
	redoBtn := &Button{X: x + half + margin, Y: y, W: half, H: 30, Text: "Redo [Enter]", OnClick: v.regenerate}
	genBtn := &Button{X: x, Y: y + 40, W: half, H: 30, Text: "Generator [G]", OnClick: v.nextGenerator}
	contBtn := &Button{X: x + half + margin, Y: y + 40, W: half, H: 30, Text: "Regions [K]", OnClick: v.toggleContinents}
	copyBtn := &Button{X: x, Y: y + 80, W: half, H: 30, Text: "Copy [C]", OnClick: v.copySettings}
	pasteBtn := &Button{X: x + half + margin, Y: y + 80, W: half, H: 30, Text: "Paste [V]", OnClick: v.pasteSettings}
	v.saveBtn = &Button{X: x, Y: y + 120, W: half, H: 30, Text: "Save: off", OnClick: v.toggleSave}
	v.storedBtn = &Button{X: x + half + margin, Y: y + 120, W: half, H: 30, Text: "Stored [L]", OnClick: v.toggleStored}

	v.buttons = []*Button{newBtn, redoBtn, genBtn, contBtn, copyBtn, pasteBtn, v.saveBtn, v.storedBtn}
}

// post queues fn for the game loop. It never blocks the caller.
func (v *Viewer) post(fn func()) {
	select {
	case v.events <- fn:
	default:
		log.Println("Viewer event queue full, dropping event")
	}
}

// Update handles input and applies finished work.
func (v *Viewer) Update() error {
	for done := false; !done; {
		select {
		case fn := <-v.events:
			fn()
		default:
			done = true
		}
	}

	remoteStorage := v.remote && v.storage && v.network.IsConnected()
	v.saveBtn.Disabled = !remoteStorage
	v.storedBtn.Disabled = !remoteStorage
	if v.config.SaveRemote {
		v.saveBtn.Text = "Save: on"
	} else {
		v.saveBtn.Text = "Save: off"
	}
	for _, b := range v.buttons {
		b.Update()
	}
	if v.showStored {
		v.stored.Update()
	}

	v.handleKeys()
	v.updateHover()
	return nil
}

// updateHover describes the tile under the cursor.
func (v *Viewer) updateHover() {
	v.hover = ""
	if v.current == nil {
		return
	}
	m := v.current.m
	scale := fitScale(m, ScreenWidth-sidebarWidth-2*margin, ScreenHeight-2*margin)
	cx, cy := ebiten.CursorPosition()
	if x, y, ok := tileAt(m, scale, cx, cy); ok {
		v.hover = tileInfo(m, v.rules, x, y)
	}
}

// tileAt maps a screen position to the tile drawn there.
func tileAt(m *maps.Map, scale, sx, sy int) (int, int, bool) {
	if sx < margin || sy < margin {
		return 0, 0, false
	}
	x, y := (sx-margin)/scale, (sy-margin)/scale
	if x >= m.Width || y >= m.Height {
		return 0, 0, false
	}
	return x, y, true
}

// tileInfo is the one line shown for a hovered tile.
func tileInfo(m *maps.Map, rules *maps.Ruleset, x, y int) string {
	t := m.Tile(x, y)
	parts := []string{fmt.Sprintf("(%d,%d) %s", x, y, t.Terrain)}
	if t.Continent > 0 {
		parts = append(parts, fmt.Sprintf("continent %d", t.Continent))
	}
	if name := rules.SpecialName(t.Terrain, t.Specials); name != "" {
		parts = append(parts, name)
	}
	if t.Specials.Has(maps.SpecialRiver) && t.Terrain != maps.TerrainRiver {
		parts = append(parts, "river")
	}
	if t.Specials.Has(maps.SpecialHut) {
		parts = append(parts, "hut")
	}
	return strings.Join(parts, ", ")
}

func (v *Viewer) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.newMap()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		v.regenerate()
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		v.nextGenerator()
	case inpututil.IsKeyJustPressed(ebiten.KeyK):
		v.toggleContinents()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		v.config.ShowSpecials = !v.config.ShowSpecials
		v.dirty = true
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		v.copySettings()
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		v.pasteSettings()
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		v.toggleStored()
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		v.adjustLand(5)
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		v.adjustLand(-5)
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		v.adjustPlayers(1)
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		v.adjustPlayers(-1)
	}

	for i, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3, ebiten.Key4, ebiten.Key5} {
		if inpututil.IsKeyJustPressed(key) {
			v.params.Generator = i + 1
			v.newMap()
		}
	}
}

func (v *Viewer) newMap() {
	p := v.params
	p.Seed = 0
	v.generate(p)
}

func (v *Viewer) regenerate() {
	v.generate(v.params)
}

func (v *Viewer) nextGenerator() {
	v.params.Generator = v.params.Generator%5 + 1
	v.newMap()
}

func (v *Viewer) adjustLand(delta int) {
	v.params.Land = min(max(v.params.Land+delta, 5), 80)
	v.newMap()
}

func (v *Viewer) adjustPlayers(delta int) {
	v.params.Players = min(max(v.params.Players+delta, 1), mapgen.MaxPlayers)
	v.newMap()
}

func (v *Viewer) toggleContinents() {
	v.config.ShowContinents = !v.config.ShowContinents
	v.dirty = true
}

func (v *Viewer) toggleSave() {
	v.config.SaveRemote = !v.config.SaveRemote
}

func (v *Viewer) toggleStored() {
	if !v.remote || !v.storage {
		return
	}
	v.showStored = !v.showStored
	if v.showStored {
		if err := v.network.RequestList(); err != nil {
			v.status = err.Error()
		}
	}
}

func (v *Viewer) copySettings() {
	if v.current == nil {
		return
	}
	text := v.current.params.String()
	if CopyText(text) {
		v.status = "Copied: " + text
	} else {
		v.status = "Clipboard unavailable"
	}
}

func (v *Viewer) pasteSettings() {
	text := PasteText()
	if text == "" {
		v.status = "Clipboard is empty"
		return
	}
	p, err := mapgen.ParseSettings(text, v.params)
	if err != nil {
		v.status = err.Error()
		return
	}
	v.generate(p)
}

// generate starts a generation, locally or on the server. A seed of 0
// draws a fresh one.
func (v *Viewer) generate(p mapgen.Params) {
	if v.busy {
		return
	}
	v.busy = true
	v.status = "Generating..."

	if v.remote {
		if err := v.network.RequestMap(p, v.config.SaveRemote && v.storage); err != nil {
			v.busy = false
			v.status = err.Error()
		}
		return
	}

	if p.Seed == 0 {
		p.Seed = v.seeds.Uint64() | 1
	}
	go func() {
		start := time.Now()
		res, err := mapgen.Generate(p, rng.New(p.Seed))
		elapsed := time.Since(start)
		v.post(func() {
			v.busy = false
			if err != nil {
				v.status = err.Error()
				return
			}
			p.Seed = res.Seed
			v.show(&shown{
				m:         res.Map,
				params:    p,
				requested: res.Requested,
				fallbacks: res.Fallbacks,
				distance:  res.Placement.Distance,
				elapsed:   elapsed,
			})
		})
	}()
}

// show puts a map on screen and remembers its settings.
func (v *Viewer) show(s *shown) {
	s.summary = maps.Summarize(s.m)
	v.current = s
	v.params = s.params
	v.dirty = true
	v.status = fmt.Sprintf("Generator %d, seed %d", s.m.Generator, s.m.Seed)
	if len(s.fallbacks) > 0 {
		v.status += fmt.Sprintf(" (fell back from %d)", s.requested)
	}

	v.config.LastParams = s.params
	if err := v.config.Save(); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
}

// handleMessage processes a server message on the game loop.
func (v *Viewer) handleMessage(msg *protocol.Message) {
	switch msg.Type {
	case protocol.TypeWelcome:
		var payload protocol.WelcomePayload
		if err := msg.ParsePayload(&payload); err != nil {
			return
		}
		v.storage = payload.Storage
		log.Printf("Connected to server %s (storage: %v)", payload.ServerVersion, payload.Storage)

	case protocol.TypeMapGenerated:
		var payload protocol.MapGeneratedPayload
		if err := msg.ParsePayload(&payload); err != nil {
			log.Printf("Failed to parse generated map: %v", err)
			v.busy = false
			return
		}
		v.busy = false
		p := v.params
		p.Seed = payload.Seed
		p.Generator = payload.Requested
		v.show(&shown{
			m:         maps.FromRaw(payload.Map),
			params:    p,
			requested: payload.Requested,
			fallbacks: payload.Fallbacks,
			distance:  payload.Distance,
		})
		if payload.Saved && v.showStored {
			v.network.RequestList()
		}

	case protocol.TypeMapData:
		var payload protocol.MapDataPayload
		if err := msg.ParsePayload(&payload); err != nil {
			return
		}
		v.show(&shown{
			m:         maps.FromRaw(payload.Map),
			params:    payload.Params,
			requested: payload.Params.Generator,
		})

	case protocol.TypeMapList:
		var payload protocol.MapListPayload
		if err := msg.ParsePayload(&payload); err != nil {
			return
		}
		v.stored.SetItems(storedItems(payload.Maps))

	case protocol.TypeError:
		var payload protocol.ErrorPayload
		if err := msg.ParsePayload(&payload); err != nil {
			return
		}
		v.busy = false
		v.status = fmt.Sprintf("Server: %s", payload.Message)
		log.Printf("Server error %s: %s", payload.Code, payload.Message)
	}
}

func storedItems(list []protocol.MapListItem) []ListItem {
	items := make([]ListItem, 0, len(list))
	for _, m := range list {
		items = append(items, ListItem{
			ID:      m.ID,
			Text:    m.Name,
			Subtext: fmt.Sprintf("%dx%d gen %d, %d players", m.Width, m.Height, m.Generator, m.Players),
		})
	}
	return items
}

// Draw renders the map and the sidebar.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)

	if v.current != nil {
		v.drawMap(screen)
	}
	v.drawSidebar(screen)
}

func (v *Viewer) overlay() Overlay {
	return Overlay{Continents: v.config.ShowContinents, Rivers: true}
}

func (v *Viewer) drawMap(screen *ebiten.Image) {
	m := v.current.m
	if v.dirty || v.mapImage == nil || v.mapImage.Bounds().Dx() != m.Width || v.mapImage.Bounds().Dy() != m.Height {
		if v.mapImage == nil || v.mapImage.Bounds().Dx() != m.Width || v.mapImage.Bounds().Dy() != m.Height {
			v.mapImage = ebiten.NewImage(m.Width, m.Height)
		}
		v.pixels = renderPixels(m, v.overlay(), v.pixels)
		v.mapImage.WritePixels(v.pixels)
		v.dirty = false
	}

	scale := fitScale(m, ScreenWidth-sidebarWidth-2*margin, ScreenHeight-2*margin)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(margin, margin)
	screen.DrawImage(v.mapImage, op)

	if v.config.ShowSpecials && scale >= 4 {
		v.drawSpecials(screen, m, scale)
	}
	v.drawStarts(screen, m, scale)
}

func (v *Viewer) drawSpecials(screen *ebiten.Image, m *maps.Map, scale int) {
	s := float32(scale)
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			t := m.Tile(x, y)
			px := float32(margin + x*scale)
			py := float32(margin + y*scale)
			if t.Specials.Has(maps.SpecialHut) {
				vector.DrawFilledRect(screen, px+s/4, py+s/4, s/2, s/2, ColorDanger, false)
			}
			if t.Specials.Has(maps.SpecialResources) {
				vector.DrawFilledCircle(screen, px+s/2, py+s/2, s/5, ColorText, false)
			}
		}
	}
}

func (v *Viewer) drawStarts(screen *ebiten.Image, m *maps.Map, scale int) {
	r := float32(max(scale, 6))
	for i, p := range m.StartPositions {
		cx := float32(margin+p.X*scale) + float32(scale)/2
		cy := float32(margin+p.Y*scale) + float32(scale)/2
		c := PlayerColors[i%len(PlayerColors)]
		vector.DrawFilledCircle(screen, cx, cy, r*0.6, c, true)
		vector.StrokeCircle(screen, cx, cy, r*0.6, 1, ColorBackground, true)
		DrawText(screen, fmt.Sprint(i+1), int(cx)+int(r), int(cy)-8)
	}
}

func (v *Viewer) drawSidebar(screen *ebiten.Image) {
	x := ScreenWidth - sidebarWidth
	DrawPanel(screen, x, 0, sidebarWidth, ScreenHeight)

	lines := []string{
		"MAPFORGE",
		"",
		v.params.String(),
	}
	switch {
	case v.remote && v.network.IsConnected():
		lines = append(lines, "Server: "+v.config.LastServer)
	case v.remote:
		lines = append(lines, "Server: "+v.config.LastServer+" (disconnected)")
	default:
		lines = append(lines, "Local generation")
	}
	if c := v.current; c != nil {
		s := c.summary
		lines = append(lines,
			fmt.Sprintf("Land %.1f%%  Continents %d", s.LandPercent, len(s.Continents)),
			fmt.Sprintf("Rivers %d  Huts %d  Specials %d", s.RiverTiles, s.Huts, s.Resources),
			fmt.Sprintf("Starts %d  Min distance %d", s.StartCount, c.distance),
		)
		if c.elapsed > 0 {
			lines = append(lines, fmt.Sprintf("Took %s", c.elapsed.Round(time.Millisecond)))
		}
	}
	if v.hover != "" {
		lines = append(lines, "", v.hover)
	}
	lines = append(lines, "", "1-5 generator  Up/Down land", "Left/Right players  R specials")
	DrawText(screen, strings.Join(lines, "\n"), x+margin, margin)

	for _, b := range v.buttons {
		b.Draw(screen)
	}

	if v.showStored {
		v.stored.Draw(screen)
	}

	if v.status != "" {
		DrawText(screen, v.status, margin, ScreenHeight-20)
	}
}

// Layout returns the logical screen size.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

// Close disconnects and saves the config.
func (v *Viewer) Close() {
	v.network.Disconnect()
	if err := v.config.Save(); err != nil {
		log.Printf("Failed to save config: %v", err)
	}
}

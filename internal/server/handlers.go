package server

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"mapforge/internal/database"
	"mapforge/internal/mapgen"
	"mapforge/internal/protocol"
	"mapforge/internal/rng"
	"mapforge/internal/startpos"
)

var (
	// errNoStorage is returned for storage requests when no database is open.
	errNoStorage      = errors.New("map storage is disabled on this server")
	errUnknownMessage = errors.New("unknown message type")
)

// Handlers processes incoming messages.
type Handlers struct {
	server *Server
}

// NewHandlers creates a new handler set.
func NewHandlers(server *Server) *Handlers {
	return &Handlers{server: server}
}

// Handle routes a message to the appropriate handler.
func (h *Handlers) Handle(client *Client, msg *protocol.Message) {
	var err error

	switch msg.Type {
	case protocol.TypeGenerateMap:
		err = h.handleGenerateMap(client, msg)
	case protocol.TypeGetMap:
		err = h.handleGetMap(client, msg)
	case protocol.TypeListMaps:
		err = h.handleListMaps(client, msg)
	case protocol.TypeDeleteMap:
		err = h.handleDeleteMap(client, msg)
	case protocol.TypePing:
		err = h.reply(client, msg, protocol.TypePong, struct{}{})
	default:
		err = fmt.Errorf("%w %q", errUnknownMessage, msg.Type)
	}

	if err != nil {
		h.sendError(client, msg.ID, err)
	}
}

// handleGenerateMap runs a generation and returns the map.
func (h *Handlers) handleGenerateMap(client *Client, msg *protocol.Message) error {
	var payload protocol.GenerateMapPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}
	if payload.Save && h.server.db == nil {
		return errNoStorage
	}

	p := payload.Params
	if p.Seed == 0 {
		p.Seed = h.server.nextSeed()
	}
	ctx := mapgen.NewContext(p)
	if h.server.verbose {
		ctx.Log = log.New(os.Stderr, "mapgen: ", log.LstdFlags)
	} else {
		ctx.Log = log.New(io.Discard, "", 0)
	}
	if h.server.db != nil {
		ctx.Diagnostics = h.server.db
	}

	// the run seeds its own stream, so this one is never drawn from
	res, err := ctx.Generate(rng.New(p.Seed))
	if err != nil {
		return err
	}
	if payload.Name != "" {
		res.Map.Name = payload.Name
	}

	saved := false
	if payload.Save {
		if _, err := h.server.db.SaveMap(res, p, payload.Name); err != nil {
			return err
		}
		saved = true
	}
	log.Printf("Generated map seed=%d generator=%d (requested %d) saved=%v",
		res.Seed, res.Generator, res.Requested, saved)

	return h.reply(client, msg, protocol.TypeMapGenerated, protocol.MapGeneratedPayload{
		Map:       res.Map.ToRaw(),
		Seed:      res.Seed,
		Requested: res.Requested,
		Generator: res.Generator,
		Fallbacks: res.Fallbacks,
		Distance:  res.Placement.Distance,
		Saved:     saved,
	})
}

// handleGetMap returns a stored map.
func (h *Handlers) handleGetMap(client *Client, msg *protocol.Message) error {
	var payload protocol.GetMapPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}
	if h.server.db == nil {
		return errNoStorage
	}

	sm, err := h.server.db.GetMap(payload.ID)
	if err != nil {
		return err
	}
	return h.reply(client, msg, protocol.TypeMapData, protocol.MapDataPayload{
		Map:    sm.Map.ToRaw(),
		Params: sm.Params,
	})
}

// handleListMaps returns every stored map.
func (h *Handlers) handleListMaps(client *Client, msg *protocol.Message) error {
	if h.server.db == nil {
		return errNoStorage
	}
	list, err := h.server.db.ListMaps()
	if err != nil {
		return err
	}

	items := make([]protocol.MapListItem, 0, len(list))
	for _, mi := range list {
		items = append(items, protocol.MapListItem{
			MapInfo:            mi.MapInfo,
			RequestedGenerator: mi.RequestedGenerator,
			CreatedAt:          mi.CreatedAt.UnixMilli(),
		})
	}
	return h.reply(client, msg, protocol.TypeMapList, protocol.MapListPayload{Maps: items})
}

// handleDeleteMap removes a stored map.
func (h *Handlers) handleDeleteMap(client *Client, msg *protocol.Message) error {
	var payload protocol.DeleteMapPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return err
	}
	if h.server.db == nil {
		return errNoStorage
	}
	if err := h.server.db.DeleteMap(payload.ID); err != nil {
		return err
	}
	return h.reply(client, msg, protocol.TypeMapDeleted, protocol.MapDeletedPayload{ID: payload.ID})
}

// reply sends a response carrying the id of the request.
func (h *Handlers) reply(client *Client, req *protocol.Message, msgType protocol.MessageType, payload interface{}) error {
	msg, err := protocol.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	msg.ID = req.ID
	client.Send(msg)
	return nil
}

// sendError sends an error message to a client.
func (h *Handlers) sendError(client *Client, msgID string, err error) {
	payload := protocol.ErrorPayload{
		Code:    errorCode(err),
		Message: err.Error(),
	}
	msg, _ := protocol.NewMessage(protocol.TypeError, payload)
	msg.ID = msgID
	client.Send(msg)
}

func errorCode(err error) protocol.ErrorCode {
	switch {
	case errors.Is(err, mapgen.ErrInvalidParams):
		return protocol.ErrCodeInvalidParams
	case errors.Is(err, startpos.ErrNoFairShare), errors.Is(err, startpos.ErrPlacementStuck):
		return protocol.ErrCodeGeneration
	case errors.Is(err, database.ErrMapNotFound):
		return protocol.ErrCodeMapNotFound
	case errors.Is(err, errNoStorage):
		return protocol.ErrCodeNoStorage
	case errors.Is(err, errUnknownMessage):
		return protocol.ErrCodeInvalidMessage
	}
	return protocol.ErrCodeInternalError
}

package api

import (
	"errors"
	"net/http"

	"github.com/FavorLabs/chainlens/pkg/chain/schema"
	"github.com/FavorLabs/chainlens/pkg/jsonhttp"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/gorilla/mux"
)

type TypeResponse struct {
	Name       string            `json:"name" yaml:"name"`
	Kind       string            `json:"kind" yaml:"kind"`
	Definition schema.Definition `json:"definition" yaml:"definition"`
}

func (s *Service) typesHandler(w http.ResponseWriter, r *http.Request) {
	jsonhttp.OK(w, s.registry)
}

func (s *Service) typeHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	d, ok := s.registry.Lookup(name)
	if !ok {
		jsonhttp.NotFound(w, "unknown type")
		return
	}
	jsonhttp.OK(w, NewTypeResponse(d))
}

func NewTypeResponse(d schema.Definition) TypeResponse {
	return TypeResponse{Name: d.Name, Kind: d.Kind.String(), Definition: d}
}

type DecodeResponse struct {
	Name  string      `json:"name" yaml:"name"`
	Value interface{} `json:"value" yaml:"value"`
}

// typeDecodeHandler decodes the SCALE bytes given as hex in the data query
// parameter as the named type.
func (s *Service) typeDecodeHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	bz, err := codec.HexDecodeString(r.URL.Query().Get("data"))
	if err != nil {
		jsonhttp.BadRequest(w, "invalid data")
		return
	}
	v, err := s.registry.Decode(name, bz)
	if err != nil {
		if errors.Is(err, schema.ErrUnknownType) {
			jsonhttp.NotFound(w, "unknown type")
			return
		}
		s.logger.Debugf("api: decode %s: %v", name, err)
		jsonhttp.BadRequest(w, "decode failed")
		return
	}
	jsonhttp.OK(w, DecodeResponse{Name: name, Value: v})
}

package api

import (
	"math/big"
	"net/http"

	"github.com/FavorLabs/chainlens/pkg/chain"
	"github.com/FavorLabs/chainlens/pkg/chain/schema"
	"github.com/FavorLabs/chainlens/pkg/jsonhttp"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types"
	"github.com/centrifuge/go-substrate-rpc-client/v4/types/codec"
	"github.com/gorilla/mux"
)

type MerchantResponse struct {
	Account      string `json:"account" yaml:"account"`
	Address      string `json:"address" yaml:"address"`
	StoragePrice string `json:"storagePrice" yaml:"storagePrice"`
	Files        int    `json:"files" yaml:"files"`
}

type PledgeResponse struct {
	Account string `json:"account" yaml:"account"`
	Total   string `json:"total" yaml:"total"`
	Used    string `json:"used" yaml:"used"`
}

type OrderStatusResponse struct {
	CompletedOn uint32 `json:"completedOn" yaml:"completedOn"`
	ExpiredOn   uint32 `json:"expiredOn" yaml:"expiredOn"`
	Status      string `json:"status" yaml:"status"`
	ClaimedAt   uint32 `json:"claimedAt" yaml:"claimedAt"`
}

type OrderResponse struct {
	ID             string               `json:"id" yaml:"id"`
	FileIdentifier string               `json:"fileIdentifier" yaml:"fileIdentifier"`
	FileSize       uint64               `json:"fileSize" yaml:"fileSize"`
	CreatedOn      uint32               `json:"createdOn" yaml:"createdOn"`
	Merchant       string               `json:"merchant" yaml:"merchant"`
	Client         string               `json:"client" yaml:"client"`
	Amount         string               `json:"amount" yaml:"amount"`
	Duration       uint32               `json:"duration" yaml:"duration"`
	Status         *OrderStatusResponse `json:"status" yaml:"status"`
}

type WorkReportResponse struct {
	Account           string            `json:"account" yaml:"account"`
	ReportSlot        uint64            `json:"reportSlot" yaml:"reportSlot"`
	Used              uint64            `json:"used" yaml:"used"`
	Free              uint64            `json:"free" yaml:"free"`
	Files             map[string]uint64 `json:"files" yaml:"files"`
	ReportedFilesSize uint64            `json:"reportedFilesSize" yaml:"reportedFilesSize"`
	ReportedSrdRoot   string            `json:"reportedSrdRoot" yaml:"reportedSrdRoot"`
	ReportedFilesRoot string            `json:"reportedFilesRoot" yaml:"reportedFilesRoot"`
}

type ExposureResponse struct {
	Who   string `json:"who" yaml:"who"`
	Value string `json:"value" yaml:"value"`
}

type GuaranteeResponse struct {
	Account     string             `json:"account" yaml:"account"`
	Targets     []ExposureResponse `json:"targets" yaml:"targets"`
	Total       string             `json:"total" yaml:"total"`
	SubmittedIn uint32             `json:"submittedIn" yaml:"submittedIn"`
	Suppressed  bool               `json:"suppressed" yaml:"suppressed"`
}

type PalletVersionResponse struct {
	Pallet  string `json:"pallet" yaml:"pallet"`
	Release string `json:"release" yaml:"release"`
	Version string `json:"version" yaml:"version"`
}

func balance(b schema.Balance) string {
	if b.Int == nil {
		return "0"
	}
	return b.String()
}

func compact(u types.UCompact) string {
	i := big.Int(u)
	return i.String()
}

func NewMerchantResponse(account string, m *schema.MerchantInfo) MerchantResponse {
	return MerchantResponse{
		Account:      account,
		Address:      string(m.Address),
		StoragePrice: balance(m.StoragePrice),
		Files:        len(m.FileMap),
	}
}

func NewPledgeResponse(account string, p *schema.Pledge) PledgeResponse {
	return PledgeResponse{
		Account: account,
		Total:   balance(p.Total),
		Used:    balance(p.Used),
	}
}

func NewOrderResponse(o *chain.Order, format func(types.AccountID) string) OrderResponse {
	resp := OrderResponse{
		ID:             o.ID.Hex(),
		FileIdentifier: codec.HexEncodeToString(o.Info.FileIdentifier),
		FileSize:       uint64(o.Info.FileSize),
		CreatedOn:      uint32(o.Info.CreatedOn),
		Merchant:       format(o.Info.Merchant),
		Client:         format(o.Info.Client),
		Amount:         balance(o.Info.Amount),
		Duration:       uint32(o.Info.Duration),
	}
	if o.Status != nil {
		resp.Status = &OrderStatusResponse{
			CompletedOn: uint32(o.Status.CompletedOn),
			ExpiredOn:   uint32(o.Status.ExpiredOn),
			Status:      o.Status.Status.String(),
			ClaimedAt:   uint32(o.Status.ClaimedAt),
		}
	}
	return resp
}

func NewWorkReportResponse(account string, w *schema.WorkReport) WorkReportResponse {
	return WorkReportResponse{
		Account:           account,
		ReportSlot:        uint64(w.ReportSlot),
		Used:              uint64(w.Used),
		Free:              uint64(w.Free),
		Files:             w.FilesMap(),
		ReportedFilesSize: uint64(w.ReportedFilesSize),
		ReportedSrdRoot:   codec.HexEncodeToString(w.ReportedSrdRoot),
		ReportedFilesRoot: codec.HexEncodeToString(w.ReportedFilesRoot),
	}
}

func NewGuaranteeResponse(account string, g *schema.Guarantee, format func(types.AccountID) string) GuaranteeResponse {
	resp := GuaranteeResponse{
		Account:     account,
		Targets:     make([]ExposureResponse, 0, len(g.Targets)),
		Total:       compact(g.Total),
		SubmittedIn: uint32(g.SubmittedIn),
		Suppressed:  bool(g.Suppressed),
	}
	for _, e := range g.Targets {
		resp.Targets = append(resp.Targets, ExposureResponse{Who: format(e.Who), Value: compact(e.Value)})
	}
	return resp
}

func NewPalletVersionResponse(pallet string, r schema.Releases) PalletVersionResponse {
	resp := PalletVersionResponse{Pallet: pallet, Release: r.String()}
	if v := r.Version(); v != nil {
		resp.Version = v.String()
	}
	return resp
}

// parseAt reads the optional at query parameter naming the block to read
// storage at.
func parseAt(r *http.Request) (*types.Hash, bool) {
	s := r.URL.Query().Get("at")
	if s == "" {
		return nil, true
	}
	h, ok := parseHash(s)
	if !ok {
		return nil, false
	}
	return &h, true
}

// accountQuery parses the account path variable and the at parameter,
// answering 400 itself when either is malformed.
func accountQuery(w http.ResponseWriter, r *http.Request) (types.AccountID, *types.Hash, bool) {
	account, err := chain.ParseAccountID(mux.Vars(r)["account"])
	if err != nil {
		jsonhttp.BadRequest(w, "invalid account")
		return types.AccountID{}, nil, false
	}
	at, ok := parseAt(r)
	if !ok {
		jsonhttp.BadRequest(w, "invalid block hash")
		return types.AccountID{}, nil, false
	}
	return account, at, true
}

func (s *Service) merchantHandler(w http.ResponseWriter, r *http.Request) {
	account, at, ok := accountQuery(w, r)
	if !ok {
		return
	}
	m, err := s.chain.Merchant(r.Context(), account, at)
	if err != nil {
		s.respondError(w, "get merchant", err)
		return
	}
	jsonhttp.OK(w, NewMerchantResponse(s.chain.FormatAccountID(account), m))
}

func (s *Service) pledgeHandler(w http.ResponseWriter, r *http.Request) {
	account, at, ok := accountQuery(w, r)
	if !ok {
		return
	}
	p, err := s.chain.Pledge(r.Context(), account, at)
	if err != nil {
		s.respondError(w, "get pledge", err)
		return
	}
	jsonhttp.OK(w, NewPledgeResponse(s.chain.FormatAccountID(account), p))
}

func (s *Service) orderHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := parseHash(mux.Vars(r)["hash"])
	if !ok {
		jsonhttp.BadRequest(w, "invalid order id")
		return
	}
	at, ok := parseAt(r)
	if !ok {
		jsonhttp.BadRequest(w, "invalid block hash")
		return
	}
	o, err := s.chain.Order(r.Context(), id, at)
	if err != nil {
		s.respondError(w, "get order", err)
		return
	}
	jsonhttp.OK(w, NewOrderResponse(o, s.chain.FormatAccountID))
}

func (s *Service) workReportHandler(w http.ResponseWriter, r *http.Request) {
	account, at, ok := accountQuery(w, r)
	if !ok {
		return
	}
	report, err := s.chain.WorkReport(r.Context(), account, at)
	if err != nil {
		s.respondError(w, "get work report", err)
		return
	}
	jsonhttp.OK(w, NewWorkReportResponse(s.chain.FormatAccountID(account), report))
}

func (s *Service) guaranteeHandler(w http.ResponseWriter, r *http.Request) {
	account, at, ok := accountQuery(w, r)
	if !ok {
		return
	}
	g, err := s.chain.Guarantee(r.Context(), account, at)
	if err != nil {
		s.respondError(w, "get guarantee", err)
		return
	}
	jsonhttp.OK(w, NewGuaranteeResponse(s.chain.FormatAccountID(account), g, s.chain.FormatAccountID))
}

var versionedPallets = map[string]string{
	"market": "Market",
	"swork":  "Swork",
}

func (s *Service) palletVersionHandler(w http.ResponseWriter, r *http.Request) {
	pallet, ok := versionedPallets[mux.Vars(r)["pallet"]]
	if !ok {
		jsonhttp.NotFound(w, "unknown pallet")
		return
	}
	at, ok := parseAt(r)
	if !ok {
		jsonhttp.BadRequest(w, "invalid block hash")
		return
	}
	release, err := s.chain.PalletVersion(r.Context(), pallet, at)
	if err != nil {
		s.respondError(w, "get pallet version", err)
		return
	}
	jsonhttp.OK(w, NewPalletVersionResponse(pallet, release))
}

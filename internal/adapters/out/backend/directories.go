package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"orderwizard/internal/core/domain/model/branch"
	"orderwizard/internal/core/domain/model/client"
	"orderwizard/internal/core/domain/model/kernel"
)

type clientDirectory struct{ c *Client }

type clientPage struct {
	Content []client.Summary `json:"content"`
}

func (d clientDirectory) Search(ctx context.Context, term string, page, size int) ([]client.Summary, error) {
	var res clientPage
	err := d.c.do(ctx, call{
		op:     "clients.search",
		method: http.MethodGet,
		path:   "/api/clients/search",
		query: url.Values{
			"term": {term},
			"page": {strconv.Itoa(page)},
			"size": {strconv.Itoa(size)},
		},
	}, &res)
	return res.Content, err
}

func (d clientDirectory) Create(ctx context.Context, draft client.Draft) (client.Summary, error) {
	var res client.Summary
	err := d.c.do(ctx, call{
		op:     "clients.create",
		method: http.MethodPost,
		path:   "/api/clients",
		body:   draft,
	}, &res)
	return res, err
}

func (d clientDirectory) Update(ctx context.Context, id kernel.UUID, draft client.Draft) (client.Summary, error) {
	var res client.Summary
	err := d.c.do(ctx, call{
		op:     "clients.update",
		method: http.MethodPut,
		path:   "/api/clients/" + id.String(),
		body:   draft,
		param:  "clientId",
		id:     id.String(),
	}, &res)
	return res, err
}

func (d clientDirectory) GetByPhone(ctx context.Context, phone string) (client.Summary, error) {
	var res client.Summary
	err := d.c.do(ctx, call{
		op:     "clients.get_by_phone",
		method: http.MethodGet,
		path:   "/api/clients/by-phone",
		query:  url.Values{"phone": {client.NormalizePhone(phone)}},
		param:  "phone",
		id:     phone,
	}, &res)
	return res, err
}

func (d clientDirectory) GetByID(ctx context.Context, id kernel.UUID) (client.Summary, error) {
	var res client.Summary
	err := d.c.do(ctx, call{
		op:     "clients.get",
		method: http.MethodGet,
		path:   "/api/clients/" + id.String(),
		param:  "clientId",
		id:     id.String(),
	}, &res)
	return res, err
}

type branchDirectory struct{ c *Client }

func (d branchDirectory) ListForSession(ctx context.Context, sessionID kernel.UUID) ([]branch.Branch, error) {
	var res []branch.Branch
	err := d.c.do(ctx, call{
		op:      "branches.list",
		method:  http.MethodGet,
		path:    sessionPath(sessionID, "branches"),
		session: sessionID,
	}, &res)
	return res, err
}

func (d branchDirectory) Select(ctx context.Context, sessionID, branchID kernel.UUID) error {
	return d.c.do(ctx, call{
		op:      "branches.select",
		method:  http.MethodPost,
		path:    sessionPath(sessionID, "branch"),
		body:    map[string]kernel.UUID{"branchId": branchID},
		session: sessionID,
	}, nil)
}

func (d branchDirectory) GenerateReceiptNumber(ctx context.Context, sessionID kernel.UUID, branchCode string) (string, error) {
	var res struct {
		ReceiptNumber string `json:"receiptNumber"`
	}
	err := d.c.do(ctx, call{
		op:      "branches.receipt_number",
		method:  http.MethodPost,
		path:    sessionPath(sessionID, "receipt-number"),
		body:    map[string]string{"branchCode": branchCode},
		session: sessionID,
	}, &res)
	return res.ReceiptNumber, err
}

func sessionPath(id kernel.UUID, rest ...string) string {
	p := "/api/order-wizard/sessions/" + id.String()
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

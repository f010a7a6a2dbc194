// Package api provides the HTTP client for marketplace price endpoints.
//
// Card endpoint (Wildberries, one request per article):
//   - https://card.wb.ru/cards/v1/detail?appType=1&curr=rub&dest=-1257786&nm={id}
//
// The response carries prices as integer kopecks under data.products[].salePriceU.
// The client only moves bytes; price extraction lives in package fetcher.
//
// Every failure returned by this package wraps model.ErrTransport.
package api

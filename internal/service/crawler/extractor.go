package crawler

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/giftdeum/gift-server/internal/model"
	applog "github.com/giftdeum/gift-server/pkg/log"
	"github.com/giftdeum/gift-server/pkg/strutil"
)

// 결과 목록의 고정 셀렉터 목록입니다.
const (
	itemSelector   = `div[class^="basicList_list"] div[class^="product_item"]`
	titleSelector  = `a[class^="product_link"]`
	imageSelector  = `img`
	priceSelector  = `span[class^="price_num"]`
	sellerSelector = `a[class^="product_mall"]`
)

// extractProducts 파싱이 완료된 검색 결과 문서에서 상품 레코드를 추출합니다.
//
// 최대 limit개의 결과 목록 항목을 순회하며, 필수 필드(상품명, 링크, 가격)가
// 누락되었거나 가격을 파싱할 수 없는 항목은 건너뜁니다. 따라서 반환되는 레코드
// 수는 limit보다 적을 수 있습니다. 스크래핑된 DOM에는 안정적인 외부 식별자가
// 없으므로 모든 레코드의 외부 식별자는 비어 있습니다.
func extractProducts(doc *goquery.Document, limit int) []*model.ExternalProductRecord {
	records := make([]*model.ExternalProductRecord, 0, limit)

	doc.Find(itemSelector).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		record, ok := extractItem(item)
		if ok {
			records = append(records, record)
		}
		return len(records) < limit
	})

	return records
}

// extractItem 결과 목록의 한 항목에서 상품 레코드를 추출합니다.
// 필수 필드가 없으면 false를 반환합니다.
func extractItem(item *goquery.Selection) (*model.ExternalProductRecord, bool) {
	titleNode := item.Find(titleSelector)
	title := strutil.NormalizeSpaces(titleNode.Text())
	link, hasLink := titleNode.Attr("href")
	if title == "" || !hasLink {
		return nil, false
	}

	priceText := item.Find(priceSelector).First().Text()
	price, err := strutil.ParsePrice(priceText)
	if err != nil {
		applog.WithComponent(component).
			WithField("title", title).
			WithField("price_text", priceText).
			Debug("가격을 파싱할 수 없어 해당 항목을 건너뜁니다.")

		return nil, false
	}

	image, _ := item.Find(imageSelector).First().Attr("src")
	seller := strutil.NormalizeSpaces(item.Find(sellerSelector).First().Text())

	return &model.ExternalProductRecord{
		Title:  title,
		Image:  image,
		Link:   link,
		Price:  int64(price),
		Seller: seller,
	}, true
}

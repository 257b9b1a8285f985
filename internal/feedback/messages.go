package feedback

import (
	"fmt"
	"strings"

	"orderbot_backend/internal/catalog"
)

const (
	replyRelayed = "✅ Спасибо! Информация передана администратору и заказчикам."

	replyNoActiveOrders = "Спасибо за информацию. Активных заявок с этими товарами сейчас нет, администратор уведомлён."

	replyFormatHint = "Пожалуйста, укажите товары после фразы, например:\n*нет в наличии: огурцы, молоко*"
)

func adminSummaryMessage(supplier catalog.Supplier, text string, affected []affectedOrder) string {
	var b strings.Builder
	b.WriteString("⚠️ *Сообщение от поставщика*\n\n")
	fmt.Fprintf(&b, "🏢 %s\n", supplier.Name)
	fmt.Fprintf(&b, "💬 %s\n\n", strings.TrimSpace(text))

	if len(affected) == 0 {
		b.WriteString("Активные заявки с этими товарами не найдены.")
		return b.String()
	}

	b.WriteString("Затронутые заявки:\n")
	for _, a := range affected {
		fmt.Fprintf(&b, "\n📍 %s (%s), заявка %s:\n", a.order.Location, a.order.DateLabel, a.order.ID)
		for _, line := range a.lines {
			fmt.Fprintf(&b, "• %s\n", line)
		}
	}
	return b.String()
}

func submitterNoticeMessage(supplier catalog.Supplier, a affectedOrder) string {
	var b strings.Builder
	b.WriteString("⚠️ *Проблема с поставкой*\n\n")
	fmt.Fprintf(&b, "Поставщик %s сообщил о проблеме с позициями вашей заявки (%s, %s):\n\n",
		supplier.Name, a.order.Location, a.order.DateLabel)
	for _, line := range a.lines {
		fmt.Fprintf(&b, "• %s\n", line)
	}
	b.WriteString("\nАдминистратор уже в курсе.")
	return b.String()
}

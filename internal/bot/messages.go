package bot

import (
	"fmt"
	"strings"

	"orderbot_backend/internal/catalog"
	"orderbot_backend/internal/orders"
)

// Conversational reply texts. Lifecycle notifications to third parties live
// with the orders service; everything here is a direct reply to the sender.

const (
	msgOrderPrompt = "📝 Напишите список товаров, например:\n\nОгурцы 13 кг\nМолоко 5 л\nХлеб 10 шт"

	msgFormatHelp = "Не удалось разобрать заявку. Укажите количество и единицу для каждой позиции, например:\n\n*Огурцы 13 кг, молоко 5 л*"

	msgNoPendingOrder = "Сейчас нет заявок, ожидающих подтверждения."

	msgOrderNotFound = "Заявка не найдена. Проверьте номер заявки."

	msgNotAllowed = "У вас нет прав на это действие."

	msgOrderDelivered = "Заявка уже доставлена, её нельзя изменить или отменить."

	msgGenericFailure = "Что-то пошло не так. Попробуйте ещё раз."

	msgSessionCancelled = "Оформление заявки отменено. Напишите любое сообщение, чтобы начать заново."

	msgEditUsage = "Формат команды:\n*редактировать <номер заявки> <новый список>*"

	msgCancelUsage = "Формат команды:\n*отмена <номер заявки>*"

	msgDeliveredUsage = "Формат команды:\n*доставлен <номер заявки>*"
)

func locationMenuMessage(c *catalog.Catalog) string {
	var b strings.Builder
	b.WriteString("👋 Здравствуйте! Для какой точки заявка?\n\n")
	for _, key := range c.LocationKeys() {
		display, _ := c.Location(key)
		fmt.Fprintf(&b, "*%s* — %s\n", key, display)
	}
	b.WriteString("\nОтправьте номер точки.")
	return b.String()
}

func locationRetryMessage(c *catalog.Catalog) string {
	return "Не узнаю такую точку. " + locationMenuMessage(c)
}

func unmatchedMessage(raws []string) string {
	var b strings.Builder
	b.WriteString("❓ Эти позиции не нашлись ни у одного поставщика:\n\n")
	for _, raw := range raws {
		fmt.Fprintf(&b, "• %s\n", raw)
	}
	b.WriteString("\nПроверьте названия и отправьте заявку ещё раз.")
	return b.String()
}

func cancelledReplyMessage(o *orders.Order, suppliersNotified bool) string {
	if suppliersNotified {
		return fmt.Sprintf("🚫 Заявка %s отменена. Поставщики уведомлены.", o.ID)
	}
	return fmt.Sprintf("🚫 Заявка %s отменена.", o.ID)
}

func editedReplyMessage(o *orders.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✏️ Заявка %s обновлена:\n\n", o.ID)
	for _, line := range o.Items {
		fmt.Fprintf(&b, "• %s\n", line)
	}
	return b.String()
}

func deliveredReplyMessage(o *orders.Order) string {
	return fmt.Sprintf("📦 Заявка %s отмечена как доставленная.", o.ID)
}

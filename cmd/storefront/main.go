package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adityabima03/YuhuKopi/internal/config"
	"github.com/adityabima03/YuhuKopi/internal/domain"
	"github.com/adityabima03/YuhuKopi/internal/storefront"
	"github.com/adityabima03/YuhuKopi/pkg/logger"
)

func main() {
	cfg, err := config.LoadStorefront()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.NewWithWriter("storefront", cfg.LogLevel, os.Stderr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess := storefront.NewFromConfig(cfg, log)
	if err := run(ctx, sess, domain.DeliveryType(cfg.DeliveryType), os.Stdout); err != nil {
		log.Error("storefront session failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// run walks one customer journey: locate, browse, fill the cart, order,
// then track.
func run(ctx context.Context, sess *storefront.Session, deliveryType domain.DeliveryType, out io.Writer) error {
	resolveCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	// A failed lookup is already recorded in the address store.
	_ = sess.Location.EnsureResolved(resolveCtx)

	fmt.Fprintf(out, "Location: %s\n", sess.Addresses.LocationDisplay())
	if msg := sess.Addresses.Err(); msg != "" {
		fmt.Fprintf(out, "  (%s)\n", msg)
	}

	menu, err := sess.Menu(ctx, storefront.AllCategories, "")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "\nMenu:")
	for _, item := range menu {
		fmt.Fprintf(out, "  %-3s %-14s %-10s $%s  (%s)\n", item.ID, item.Name, item.Category, item.Price, item.ImageAsset)
	}
	if len(menu) == 0 {
		return fmt.Errorf("menu is empty")
	}

	first := menu[0].Coffee
	sess.AddToCart(first, domain.SizeMedium)
	sess.AddToCart(first, domain.SizeMedium)
	if len(menu) > 1 {
		sess.AddToCart(menu[len(menu)-1].Coffee, domain.SizeSmall)
		sess.Favorites.Toggle(menu[len(menu)-1].ID)
	}

	fmt.Fprintln(out, "\nCart:")
	for _, li := range sess.Cart.Items() {
		fmt.Fprintf(out, "  %dx %s (%s)  $%s\n", li.Quantity, li.Name, li.Size, domain.FormatMoney(li.LineTotal()))
	}
	fmt.Fprintf(out, "Favorites: %d\n", sess.Favorites.Count())

	summary := sess.Summary(deliveryType)
	fmt.Fprintf(out, "\nPayment summary (%s):\n", deliveryType)
	fmt.Fprintf(out, "  Price         $%s\n", domain.FormatMoney(summary.Subtotal))
	if deliveryType == domain.DeliveryTypeDeliver {
		fmt.Fprintf(out, "  Delivery Fee  $%s (was $%s)\n",
			domain.FormatMoney(summary.DeliveryFee), domain.FormatMoney(summary.OriginalFee))
	}
	fmt.Fprintf(out, "  Total         $%s\n", domain.FormatMoney(summary.Total))

	receipt, err := sess.PlaceOrder(ctx, deliveryType)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nOrder %s is %s\n", receipt.ID, receipt.Status)

	if deliveryType == domain.DeliveryTypeDeliver {
		view := sess.Track()
		fmt.Fprintf(out, "\n%s\n%s\n%s from %s, courier %s\nRoute: %s\n",
			view.ETA, view.Headline, view.Status, view.ShopName, view.CourierName, view.RouteURL)
	}
	return nil
}

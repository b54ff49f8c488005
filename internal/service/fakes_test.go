package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/al3-rom/wannago/internal/domain"
	"github.com/al3-rom/wannago/internal/repository"
)

// In-memory stand-ins for the repository layer. They enforce the same
// uniqueness rules the database constraints do.

type fakeOfferRepo struct {
	offers   map[uint]domain.Offer
	accepted map[uint]domain.AcceptedOffer
	products *fakeProductRepo
	nextID   uint
}

func newFakeOfferRepo(products *fakeProductRepo) *fakeOfferRepo {
	return &fakeOfferRepo{
		offers:   map[uint]domain.Offer{},
		accepted: map[uint]domain.AcceptedOffer{},
		products: products,
		nextID:   1,
	}
}

func (f *fakeOfferRepo) Create(_ context.Context, offer domain.Offer) (domain.Offer, error) {
	for _, o := range f.offers {
		if o.ProductID == offer.ProductID && o.BuyerID == offer.BuyerID {
			return domain.Offer{}, repository.ErrDuplicateOffer
		}
	}

	offer.ID = f.nextID
	f.nextID++
	offer.Active = true
	offer.CreatedAt = time.Now()
	f.offers[offer.ID] = offer

	return offer, nil
}

func (f *fakeOfferRepo) FindByID(_ context.Context, id uint) (domain.Offer, error) {
	offer, ok := f.offers[id]
	if !ok {
		return domain.Offer{}, repository.ErrOfferNotFound
	}
	return offer, nil
}

func (f *fakeOfferRepo) UpdatePrice(_ context.Context, id uint, price float64) error {
	offer, ok := f.offers[id]
	if !ok {
		return repository.ErrOfferNotFound
	}
	offer.Price = price
	f.offers[id] = offer
	return nil
}

func (f *fakeOfferRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.offers[id]; !ok {
		return repository.ErrOfferNotFound
	}
	delete(f.offers, id)
	return nil
}

func (f *fakeOfferRepo) FindAccepted(_ context.Context, offerID uint) (domain.AcceptedOffer, error) {
	accepted, ok := f.accepted[offerID]
	if !ok {
		return domain.AcceptedOffer{}, repository.ErrAcceptedOfferNotFound
	}
	return accepted, nil
}

func (f *fakeOfferRepo) ProductSold(_ context.Context, productID uint) (bool, error) {
	for _, a := range f.accepted {
		if a.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOfferRepo) Accept(ctx context.Context, offerID, productID uint, instructions string) (domain.AcceptedOffer, error) {
	if sold, _ := f.ProductSold(ctx, productID); sold {
		return domain.AcceptedOffer{}, repository.ErrOfferAlreadyAccepted
	}

	accepted := domain.AcceptedOffer{
		OfferID:      offerID,
		ProductID:    productID,
		Instructions: instructions,
		CreatedAt:    time.Now(),
	}
	f.accepted[offerID] = accepted

	for id, o := range f.offers {
		if o.ProductID == productID {
			o.Active = false
			f.offers[id] = o
		}
	}

	return accepted, nil
}

func (f *fakeOfferRepo) Revert(_ context.Context, accepted domain.AcceptedOffer) error {
	if _, ok := f.accepted[accepted.OfferID]; !ok {
		return repository.ErrAcceptedOfferNotFound
	}
	delete(f.accepted, accepted.OfferID)

	for id, o := range f.offers {
		if o.ProductID == accepted.ProductID {
			o.Active = true
			f.offers[id] = o
		}
	}

	return nil
}

func (f *fakeOfferRepo) UpdateInstructions(_ context.Context, offerID uint, instructions string) error {
	accepted, ok := f.accepted[offerID]
	if !ok {
		return repository.ErrAcceptedOfferNotFound
	}
	accepted.Instructions = instructions
	f.accepted[offerID] = accepted
	return nil
}

func (f *fakeOfferRepo) sortedOffers(keep func(domain.Offer) bool) []domain.Offer {
	var out []domain.Offer
	for _, o := range f.offers {
		if keep(o) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeOfferRepo) PendingByBuyer(_ context.Context, buyerID uint) ([]domain.Offer, error) {
	return f.sortedOffers(func(o domain.Offer) bool {
		_, accepted := f.accepted[o.ID]
		return o.BuyerID == buyerID && !accepted
	}), nil
}

func (f *fakeOfferRepo) AcceptedByBuyer(_ context.Context, buyerID uint) ([]domain.AcceptedOffer, error) {
	var out []domain.AcceptedOffer
	for offerID, a := range f.accepted {
		if f.offers[offerID].BuyerID == buyerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeOfferRepo) InactiveByBuyer(_ context.Context, buyerID uint) ([]domain.Offer, error) {
	return f.sortedOffers(func(o domain.Offer) bool {
		return o.BuyerID == buyerID && !o.Active
	}), nil
}

func (f *fakeOfferRepo) ActiveBySeller(_ context.Context, sellerID uint) ([]domain.Offer, error) {
	return f.sortedOffers(func(o domain.Offer) bool {
		return f.products.sellerOf(o.ProductID) == sellerID && o.Active
	}), nil
}

func (f *fakeOfferRepo) InactiveBySeller(_ context.Context, sellerID uint) ([]domain.Offer, error) {
	return f.sortedOffers(func(o domain.Offer) bool {
		return f.products.sellerOf(o.ProductID) == sellerID && !o.Active
	}), nil
}

func (f *fakeOfferRepo) AcceptedBySeller(_ context.Context, sellerID uint) ([]domain.AcceptedOffer, error) {
	var out []domain.AcceptedOffer
	for _, a := range f.accepted {
		if f.products.sellerOf(a.ProductID) == sellerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeOfferRepo) CountByBuyer(_ context.Context, buyerID uint) (int64, error) {
	var n int64
	for _, o := range f.offers {
		if o.BuyerID == buyerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeOfferRepo) CountByProduct(_ context.Context, productID uint) (int64, error) {
	var n int64
	for _, o := range f.offers {
		if o.ProductID == productID {
			n++
		}
	}
	return n, nil
}

func (f *fakeOfferRepo) SumAcceptedSales(_ context.Context, sellerID uint) (float64, error) {
	var total float64
	for offerID, a := range f.accepted {
		offer := f.offers[offerID]
		if f.products.sellerOf(a.ProductID) == sellerID && offer.BuyerID != sellerID {
			total += offer.Price
		}
	}
	return total, nil
}

func (f *fakeOfferRepo) SumAcceptedPurchases(_ context.Context, buyerID uint) (float64, error) {
	var total float64
	for offerID := range f.accepted {
		if f.offers[offerID].BuyerID == buyerID {
			total += f.offers[offerID].Price
		}
	}
	return total, nil
}

type fakeProductRepo struct {
	products map[uint]domain.Product
	nextID   uint
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: map[uint]domain.Product{},
		nextID:   1,
	}
}

func (f *fakeProductRepo) sellerOf(productID uint) uint {
	return f.products[productID].SellerID
}

func (f *fakeProductRepo) add(sellerID uint, price float64) domain.Product {
	p := domain.Product{
		ID:       f.nextID,
		Title:    fmt.Sprintf("product %d", f.nextID),
		Price:    price,
		SellerID: sellerID,
	}
	f.nextID++
	f.products[p.ID] = p
	return p
}

func (f *fakeProductRepo) Create(_ context.Context, product domain.Product) (domain.Product, error) {
	product.ID = f.nextID
	f.nextID++
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uint) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, repository.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) Update(_ context.Context, product domain.Product) (domain.Product, error) {
	current, ok := f.products[product.ID]
	if !ok {
		return domain.Product{}, repository.ErrProductNotFound
	}
	// Mirror ProductDAO.Update, which writes only the listing columns
	// and leaves seller_id and created_at untouched.
	current.Title = product.Title
	current.Description = product.Description
	current.Photo = product.Photo
	current.Price = product.Price
	current.CategoryID = product.CategoryID
	f.products[product.ID] = current
	return current, nil
}

func (f *fakeProductRepo) Delete(_ context.Context, id uint) error {
	delete(f.products, id)
	return nil
}

func (f *fakeProductRepo) List(_ context.Context, _ uint, _ string, _, _ int) ([]domain.Product, error) {
	return f.all(), nil
}

func (f *fakeProductRepo) ListBySeller(_ context.Context, sellerID uint) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range f.all() {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) CountBySeller(_ context.Context, sellerID uint) (int64, error) {
	var n int64
	for _, p := range f.products {
		if p.SellerID == sellerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeProductRepo) Categories(_ context.Context) ([]domain.Category, error) {
	return []domain.Category{{ID: 1, Name: "Electronics"}}, nil
}

func (f *fakeProductRepo) all() []domain.Product {
	var out []domain.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type fakeBlockRepo struct {
	users    map[uint]domain.BlockedUser
	products map[uint]domain.BlockedProduct
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{
		users:    map[uint]domain.BlockedUser{},
		products: map[uint]domain.BlockedProduct{},
	}
}

func (f *fakeBlockRepo) BlockUser(_ context.Context, block domain.BlockedUser) (domain.BlockedUser, error) {
	if _, ok := f.users[block.UserID]; ok {
		return domain.BlockedUser{}, repository.ErrUserAlreadyBlocked
	}
	block.CreatedAt = time.Now()
	f.users[block.UserID] = block
	return block, nil
}

func (f *fakeBlockRepo) UnblockUser(_ context.Context, userID uint) error {
	if _, ok := f.users[userID]; !ok {
		return repository.ErrUserNotBlocked
	}
	delete(f.users, userID)
	return nil
}

func (f *fakeBlockRepo) BlockProduct(_ context.Context, block domain.BlockedProduct) (domain.BlockedProduct, error) {
	if _, ok := f.products[block.ProductID]; ok {
		return domain.BlockedProduct{}, repository.ErrProductAlreadyBlocked
	}
	block.CreatedAt = time.Now()
	f.products[block.ProductID] = block
	return block, nil
}

func (f *fakeBlockRepo) UnblockProduct(_ context.Context, productID uint) error {
	if _, ok := f.products[productID]; !ok {
		return repository.ErrProductNotBlocked
	}
	delete(f.products, productID)
	return nil
}

func (f *fakeBlockRepo) IsUserBlocked(_ context.Context, userID uint) (bool, error) {
	_, ok := f.users[userID]
	return ok, nil
}

func (f *fakeBlockRepo) IsProductBlocked(_ context.Context, productID uint) (bool, error) {
	_, ok := f.products[productID]
	return ok, nil
}

func (f *fakeBlockRepo) ListBlockedUsers(_ context.Context) ([]domain.BlockedUser, error) {
	var out []domain.BlockedUser
	for _, b := range f.users {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBlockRepo) ListBlockedProducts(_ context.Context) ([]domain.BlockedProduct, error) {
	var out []domain.BlockedProduct
	for _, b := range f.products {
		out = append(out, b)
	}
	return out, nil
}

type fakeUserRepo struct {
	users  map[uint]domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:  map[uint]domain.User{},
		nextID: 1,
	}
}

func (f *fakeUserRepo) add(role domain.Role) domain.User {
	u := domain.User{
		ID:       f.nextID,
		Email:    fmt.Sprintf("user%d@example.com", f.nextID),
		Name:     fmt.Sprintf("user %d", f.nextID),
		Role:     role,
		Verified: true,
	}
	f.nextID++
	f.users[u.ID] = u
	return u
}

func (f *fakeUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == user.Email {
			return domain.User{}, repository.ErrUserEmailExists
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint) (domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrUserNotFound
}

func (f *fakeUserRepo) FindByIDAndToken(_ context.Context, id uint, token string) (domain.User, error) {
	u, ok := f.users[id]
	if !ok || u.EmailToken != token || token == "" {
		return domain.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user domain.User) (domain.User, error) {
	if _, ok := f.users[user.ID]; !ok {
		return domain.User{}, repository.ErrUserNotFound
	}
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uint) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, roleFilter domain.Role, search string, _, _ int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range f.users {
		if roleFilter != "" && u.Role != roleFilter {
			continue
		}
		if search != "" && !strings.Contains(u.Name, search) && !strings.Contains(u.Email, search) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeMailer struct {
	verifications int
	contacts      int
	fail          bool
}

func (f *fakeMailer) SendVerification(_ context.Context, _ domain.User, _ string) error {
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.verifications++
	return nil
}

func (f *fakeMailer) SendContact(_ context.Context, _ domain.User, _, _ string, _ []string) error {
	if f.fail {
		return fmt.Errorf("smtp down")
	}
	f.contacts++
	return nil
}

type fakeIDs struct{}

func (fakeIDs) Encode(id uint) string {
	return "x" + strconv.FormatUint(uint64(id), 10)
}

func (fakeIDs) Decode(encoded string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(encoded, "x"), 10, 64)
	return uint(id), err
}

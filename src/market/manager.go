package market

import (
	"fmt"
	"sort"
)

// Stats holds current and peak registry sizes.
type Stats struct {
	Symbols       int
	MaxSymbols    int
	OrderBooks    int
	MaxOrderBooks int
	Orders        int
	MaxOrders     int
}

// Manager owns the symbols, one order book per symbol and the index of
// resident orders by id, and reports every change to its Handler.
//
// A Manager is not safe for concurrent use. Shard by running one Manager per
// feed partition, or serialize calls externally.
type Manager struct {
	handler Handler

	symbols map[uint32]Symbol
	books   map[uint32]*OrderBook
	orders  map[uint64]*Order

	stats     Stats
	notifying bool
}

func NewManager(handler Handler) *Manager {
	if handler == nil {
		handler = NopHandler{}
	}
	return &Manager{
		handler: handler,
		symbols: make(map[uint32]Symbol),
		books:   make(map[uint32]*OrderBook),
		orders:  make(map[uint64]*Order),
	}
}

func (m *Manager) Symbol(id uint32) (Symbol, bool) {
	s, ok := m.symbols[id]
	return s, ok
}

// Symbols returns the registered symbols ordered by id.
func (m *Manager) Symbols() []Symbol {
	out := make([]Symbol, 0, len(m.symbols))
	for _, s := range m.symbols {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *Manager) OrderBook(symbolID uint32) (*OrderBook, bool) {
	b, ok := m.books[symbolID]
	return b, ok
}

// OrderBooks returns the order books ordered by symbol id.
func (m *Manager) OrderBooks() []*OrderBook {
	out := make([]*OrderBook, 0, len(m.books))
	for _, b := range m.books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].symbol.ID < out[j].symbol.ID })
	return out
}

func (m *Manager) Order(id uint64) (*Order, bool) {
	o, ok := m.orders[id]
	return o, ok
}

func (m *Manager) Stats() Stats { return m.stats }

func (m *Manager) AddSymbol(symbol Symbol) error {
	if m.notifying {
		return ErrReentrantMutation
	}
	if _, ok := m.symbols[symbol.ID]; ok {
		return fmt.Errorf("%w: symbol %d", ErrDuplicateSymbol, symbol.ID)
	}

	m.symbols[symbol.ID] = symbol
	m.trackSymbols()

	m.notify(func() { m.handler.OnAddSymbol(symbol) })
	return nil
}

// DeleteSymbol removes a symbol. Its order book, if any, is deleted first
// together with every resident order.
func (m *Manager) DeleteSymbol(id uint32) error {
	if m.notifying {
		return ErrReentrantMutation
	}
	symbol, ok := m.symbols[id]
	if !ok {
		return fmt.Errorf("%w: symbol %d", ErrSymbolNotFound, id)
	}

	var teardown func()
	if book, ok := m.books[id]; ok {
		teardown = m.dropOrderBook(book)
	}
	delete(m.symbols, id)
	m.trackSymbols()

	m.notify(func() {
		if teardown != nil {
			teardown()
		}
		m.handler.OnDeleteSymbol(symbol)
	})
	return nil
}

// AddOrderBook creates the order book of a registered symbol.
func (m *Manager) AddOrderBook(symbol Symbol) error {
	if m.notifying {
		return ErrReentrantMutation
	}
	if _, ok := m.symbols[symbol.ID]; !ok {
		return fmt.Errorf("%w: symbol %d", ErrSymbolNotFound, symbol.ID)
	}
	if _, ok := m.books[symbol.ID]; ok {
		return fmt.Errorf("%w: symbol %d", ErrDuplicateOrderBook, symbol.ID)
	}

	book := newOrderBook(m.symbols[symbol.ID])
	m.books[symbol.ID] = book
	m.trackOrderBooks()

	m.notify(func() { m.handler.OnAddOrderBook(book) })
	return nil
}

// DeleteOrderBook removes a symbol's order book and every order resting in it.
func (m *Manager) DeleteOrderBook(symbolID uint32) error {
	if m.notifying {
		return ErrReentrantMutation
	}
	book, ok := m.books[symbolID]
	if !ok {
		return fmt.Errorf("%w: symbol %d", ErrOrderBookNotFound, symbolID)
	}

	teardown := m.dropOrderBook(book)
	m.notify(teardown)
	return nil
}

// dropOrderBook unregisters book and its orders and returns the notifications
// to send for them.
func (m *Manager) dropOrderBook(book *OrderBook) func() {
	orders, changes := book.drain()
	for _, o := range orders {
		delete(m.orders, o.ID)
	}
	delete(m.books, book.symbol.ID)
	m.trackOrders()
	m.trackOrderBooks()

	return func() {
		for _, o := range orders {
			m.handler.OnDeleteOrder(o)
		}
		m.publish(book, changes...)
		m.handler.OnDeleteOrderBook(book)
	}
}

func (m *Manager) AddOrder(order Order) error {
	if m.notifying {
		return ErrReentrantMutation
	}
	book, err := m.checkNewOrder(&order, nil)
	if err != nil {
		return err
	}

	o := &order
	m.orders[o.ID] = o
	m.trackOrders()
	change := book.upsert(o)

	m.notify(func() {
		m.handler.OnAddOrder(o)
		m.publish(book, change)
	})
	return nil
}

// ReduceOrder cancels quantity shares of a resident order. Reducing by the
// whole remaining quantity deletes the order.
func (m *Manager) ReduceOrder(id, quantity uint64) error {
	if m.notifying {
		return ErrReentrantMutation
	}
	o, book, err := m.resident(id)
	if err != nil {
		return err
	}
	if err := checkQuantity(o, quantity); err != nil {
		return err
	}

	change := book.reduce(o, quantity)
	if o.Quantity == 0 {
		m.forget(o)
	}

	m.notify(func() {
		m.handler.OnReduceOrder(o, quantity)
		m.settle(o)
		m.publish(book, change)
	})
	return nil
}

// ModifyOrder changes the price and quantity of a resident order in place.
// The order goes to the back of its new level.
func (m *Manager) ModifyOrder(id, newPrice, newQuantity uint64) error {
	if m.notifying {
		return ErrReentrantMutation
	}
	o, book, err := m.resident(id)
	if err != nil {
		return err
	}
	if newQuantity == 0 {
		return fmt.Errorf("%w: modify order %d to zero quantity", ErrInvalidQuantity, id)
	}

	before := o.snapshot()
	changes := book.move(o, newPrice, newQuantity)

	m.notify(func() {
		m.handler.OnModifyOrder(before, newPrice, newQuantity)
		m.handler.OnUpdateOrder(o)
		m.publish(book, changes...)
	})
	return nil
}

// ReplaceOrder deletes order id and adds newID in its place with the same
// symbol, side and type.
func (m *Manager) ReplaceOrder(id, newID, newPrice, newQuantity uint64) error {
	if m.notifying {
		return ErrReentrantMutation
	}
	o, book, err := m.resident(id)
	if err != nil {
		return err
	}
	next := NewOrder(newID, o.SymbolID, o.Side, o.Type, newPrice, newQuantity)
	if _, err := m.checkNewOrder(&next, o); err != nil {
		return err
	}

	out, in := m.swap(o, book, book, &next)

	m.notify(func() {
		m.handler.OnReplaceOrder(o, newID, newPrice, newQuantity)
		m.publish(book, out, in)
	})
	return nil
}

// ReplaceOrderWith deletes order id and adds order in its place.
func (m *Manager) ReplaceOrderWith(id uint64, order Order) error {
	if m.notifying {
		return ErrReentrantMutation
	}
	o, book, err := m.resident(id)
	if err != nil {
		return err
	}
	target, err := m.checkNewOrder(&order, o)
	if err != nil {
		return err
	}

	n := &order
	out, in := m.swap(o, book, target, n)

	m.notify(func() {
		m.handler.OnReplaceOrderWith(o, n)
		m.publish(book, out)
		m.publish(target, in)
	})
	return nil
}

// swap takes o out of from and rests next in to.
func (m *Manager) swap(o *Order, from, to *OrderBook, next *Order) (out, in levelChange) {
	out = from.remove(o)
	m.forget(o)

	m.orders[next.ID] = next
	m.trackOrders()
	in = to.upsert(next)
	return out, in
}

func (m *Manager) DeleteOrder(id uint64) error {
	if m.notifying {
		return ErrReentrantMutation
	}
	o, book, err := m.resident(id)
	if err != nil {
		return err
	}

	change := book.remove(o)
	m.forget(o)

	m.notify(func() {
		m.handler.OnDeleteOrder(o)
		m.publish(book, change)
	})
	return nil
}

// ExecuteOrder fills quantity of a resident order at its resting price.
func (m *Manager) ExecuteOrder(id, quantity uint64) error {
	if m.notifying {
		return ErrReentrantMutation
	}
	o, _, err := m.resident(id)
	if err != nil {
		return err
	}
	return m.execute(o, o.Price, quantity)
}

// ExecuteOrderAt fills quantity of a resident order at an explicit price,
// which may differ from the resting price.
func (m *Manager) ExecuteOrderAt(id, price, quantity uint64) error {
	if m.notifying {
		return ErrReentrantMutation
	}
	o, _, err := m.resident(id)
	if err != nil {
		return err
	}
	return m.execute(o, price, quantity)
}

func (m *Manager) execute(o *Order, price, quantity uint64) error {
	if err := checkQuantity(o, quantity); err != nil {
		return err
	}
	book := m.books[o.SymbolID]

	change := book.reduce(o, quantity)
	if o.Quantity == 0 {
		m.forget(o)
	}

	m.notify(func() {
		m.handler.OnExecuteOrder(o, price, quantity)
		m.settle(o)
		m.publish(book, change)
	})
	return nil
}

// checkNewOrder validates an order about to become resident and returns its
// book. vacating is the order the same operation removes, whose id may be
// reused.
func (m *Manager) checkNewOrder(o *Order, vacating *Order) (*OrderBook, error) {
	if o.Type != TypeLimit {
		return nil, fmt.Errorf("%w: order %d is %s", ErrInvalidOrder, o.ID, o.Type)
	}
	if o.Quantity == 0 {
		return nil, fmt.Errorf("%w: order %d has zero quantity", ErrInvalidQuantity, o.ID)
	}
	if cur, ok := m.orders[o.ID]; ok && cur != vacating {
		return nil, fmt.Errorf("%w: order %d", ErrDuplicateOrder, o.ID)
	}
	if _, ok := m.symbols[o.SymbolID]; !ok {
		return nil, fmt.Errorf("%w: symbol %d", ErrSymbolNotFound, o.SymbolID)
	}
	book, ok := m.books[o.SymbolID]
	if !ok {
		return nil, fmt.Errorf("%w: symbol %d", ErrOrderBookNotFound, o.SymbolID)
	}
	o.next, o.prev = nil, nil
	return book, nil
}

func checkQuantity(o *Order, quantity uint64) error {
	if quantity == 0 || quantity > o.Quantity {
		return fmt.Errorf("%w: %d requested, order %d has %d", ErrInvalidQuantity, quantity, o.ID, o.Quantity)
	}
	return nil
}

func (m *Manager) resident(id uint64) (*Order, *OrderBook, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: order %d", ErrOrderNotFound, id)
	}
	return o, m.books[o.SymbolID], nil
}

func (m *Manager) forget(o *Order) {
	delete(m.orders, o.ID)
	m.trackOrders()
}

// settle reports what became of an order after quantity was taken off it.
func (m *Manager) settle(o *Order) {
	if o.Quantity == 0 {
		m.handler.OnDeleteOrder(o)
	} else {
		m.handler.OnUpdateOrder(o)
	}
}

func (m *Manager) publish(book *OrderBook, changes ...levelChange) {
	for _, c := range changes {
		switch c.action {
		case levelAdd:
			m.handler.OnAddLevel(book, c.level, c.top)
		case levelUpdate:
			m.handler.OnUpdateLevel(book, c.level, c.top)
		case levelDelete:
			m.handler.OnDeleteLevel(book, c.level, c.top)
		}
		m.handler.OnUpdateOrderBook(book, c.level, c.top)
	}
}

func (m *Manager) notify(fn func()) {
	m.notifying = true
	defer func() { m.notifying = false }()
	fn()
}

func (m *Manager) trackSymbols() {
	m.stats.Symbols = len(m.symbols)
	m.stats.MaxSymbols = max(m.stats.MaxSymbols, m.stats.Symbols)
}

func (m *Manager) trackOrderBooks() {
	m.stats.OrderBooks = len(m.books)
	m.stats.MaxOrderBooks = max(m.stats.MaxOrderBooks, m.stats.OrderBooks)
}

func (m *Manager) trackOrders() {
	m.stats.Orders = len(m.orders)
	m.stats.MaxOrders = max(m.stats.MaxOrders, m.stats.Orders)
}

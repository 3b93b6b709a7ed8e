// seehuhn.de/go/pdfedit - annotate and export PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package mutator

import (
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/xmp"
)

// xmpPDF is the XMP namespace for PDF metadata.
// See https://developer.adobe.com/xmp/docs/XMPNamespaces/pdf/
type xmpPDF struct {
	_        xmp.Namespace `xmp:"http://ns.adobe.com/pdf/1.3/"`
	_        xmp.Prefix    `xmp:"pdf"`
	Producer xmp.AgentName
}

// readMetadata returns the XMP packet of the original document.
// If the document has no usable metadata, an empty packet is returned.
func (d *Document) readMetadata() *xmp.Packet {
	var noRef pdf.Reference
	ref := d.r.GetMeta().Catalog.Metadata
	if ref == noRef {
		return xmp.NewPacket()
	}

	body, err := pdf.GetStreamReader(d.r, ref)
	if err != nil {
		d.log.Warn("cannot read XMP metadata", "error", err)
		return xmp.NewPacket()
	}
	defer body.Close()

	packet, err := xmp.Read(body)
	if err != nil {
		d.log.Warn("cannot parse XMP metadata", "error", err)
		return xmp.NewPacket()
	}
	return packet
}

// updateMetadata writes a new XMP metadata stream, which records the
// modification time and the producer of the edited file.
// Files older than PDF 1.4 do not support XMP metadata and are left
// unchanged.
func (d *Document) updateMetadata(w *pdf.Writer) error {
	if err := pdf.CheckVersion(w, "XMP metadata stream", pdf.V1_4); err != nil {
		d.log.Debug("XMP metadata not updated", "error", err)
		return nil
	}

	packet := d.readMetadata()

	info := &xmp.Basic{}
	info.ModifyDate = xmp.NewDate(d.opt.Now())
	models := []any{info}
	// Set clears the properties of zero fields, so an empty producer
	// must not be passed on.
	if d.opt.Producer != "" {
		models = append(models, &xmpPDF{Producer: xmp.NewAgentName(d.opt.Producer)})
	}
	if err := packet.Set(models...); err != nil {
		return err
	}

	ref := w.Alloc()
	dict := pdf.Dict{
		"Type":    pdf.Name("Metadata"),
		"Subtype": pdf.Name("XML"),
	}
	var filters []pdf.Filter
	if d.opt.Compress {
		filters = append(filters, pdf.FilterFlate{})
	}
	stm, err := w.OpenStream(ref, dict, filters...)
	if err != nil {
		return err
	}
	err = packet.Write(stm, &xmp.PacketOptions{Pretty: !d.opt.Compress})
	if err != nil {
		return err
	}
	err = stm.Close()
	if err != nil {
		return err
	}

	w.GetMeta().Catalog.Metadata = ref
	return nil
}
